package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

// mockAssetClient is a mock implementation of AssetClient
type mockAssetClient struct {
	downloadFunc func(ctx context.Context, url string, w io.Writer) (int64, error)
	urls         []string
}

func (m *mockAssetClient) DownloadAsset(ctx context.Context, url string, w io.Writer) (int64, error) {
	m.urls = append(m.urls, url)
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, url, w)
	}
	return 0, nil
}

func payloadAsset(payload []byte) *mockAssetClient {
	return &mockAssetClient{
		downloadFunc: func(ctx context.Context, url string, w io.Writer) (int64, error) {
			n, err := w.Write(payload)
			return int64(n), err
		},
	}
}

// mockRunner is a mock implementation of CommandRunner
type mockRunner struct {
	mu       sync.Mutex
	runFunc  func(ctx context.Context, req interfaces.CommandRequest) (*interfaces.CommandResult, error)
	requests []interfaces.CommandRequest
}

func (m *mockRunner) Run(ctx context.Context, req interfaces.CommandRequest) (*interfaces.CommandResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.runFunc != nil {
		return m.runFunc(ctx, req)
	}
	return &interfaces.CommandResult{}, nil
}

func (m *mockRunner) calls() []interfaces.CommandRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interfaces.CommandRequest(nil), m.requests...)
}

// failingRunner exits with code and stderr like a real tool would
func failingRunner(code int, stderr string) *mockRunner {
	return &mockRunner{
		runFunc: func(ctx context.Context, req interfaces.CommandRequest) (*interfaces.CommandResult, error) {
			return &interfaces.CommandResult{Stderr: []byte(stderr), ExitCode: code},
				&types.CommandError{
					Command:  append([]string{req.Name}, req.Args...),
					ExitCode: code,
					Stderr:   stderr,
				}
		},
	}
}
