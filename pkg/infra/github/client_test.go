package github_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/plonk/pkg/domain/types"
	githubinfra "github.com/m-mizutani/plonk/pkg/infra/github"
)

func TestClient_DownloadAsset_Success(t *testing.T) {
	payload := []byte("fake devkit archive content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer server.Close()

	client := githubinfra.NewClient(githubinfra.WithRetryMax(0))

	var buf bytes.Buffer
	n, err := client.DownloadAsset(context.Background(), server.URL+"/asset.tar.xz", &buf)
	gt.NoError(t, err)
	gt.Number(t, n).Equal(int64(len(payload)))
	gt.Value(t, buf.Bytes()).Equal(payload)
}

func TestClient_DownloadAsset_ErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte("error page"))
			}))
			defer server.Close()

			client := githubinfra.NewClient(githubinfra.WithRetryMax(0))

			var buf bytes.Buffer
			_, err := client.DownloadAsset(context.Background(), server.URL, &buf)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagNetwork))
			gt.Number(t, buf.Len()).Equal(0)
		})
	}
}

func TestClient_DownloadAsset_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := githubinfra.NewClient(githubinfra.WithRetryMax(0))

	var buf bytes.Buffer
	_, err := client.DownloadAsset(context.Background(), url, &buf)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagNetwork))
}

func TestClient_DownloadAsset_RetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := githubinfra.NewClient(
		githubinfra.WithRetryMax(2),
		githubinfra.WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)

	var buf bytes.Buffer
	_, err := client.DownloadAsset(context.Background(), server.URL, &buf)
	gt.NoError(t, err)
	gt.String(t, buf.String()).Equal("ok")
	gt.Number(t, atomic.LoadInt32(&calls)).Equal(int32(2))
}

func TestClient_DownloadAsset_Token(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := githubinfra.NewClient(githubinfra.WithRetryMax(0), githubinfra.WithToken("test-token"))

	var buf bytes.Buffer
	_, err := client.DownloadAsset(context.Background(), server.URL, &buf)
	gt.NoError(t, err)
	gt.String(t, gotAuth).Equal("Bearer test-token")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestClient_DownloadAsset_WriteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	client := githubinfra.NewClient(githubinfra.WithRetryMax(0))

	_, err := client.DownloadAsset(context.Background(), server.URL, failingWriter{})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagFilesystem))
	gt.False(t, goerr.HasTag(err, types.ErrTagNetwork))
}

func TestClient_DownloadAsset_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := githubinfra.NewClient(githubinfra.WithRetryMax(0))

	var buf bytes.Buffer
	_, err := client.DownloadAsset(ctx, server.URL, &buf)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagNetwork))
}

func TestClient_DownloadAsset_TimeoutCoversRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := githubinfra.NewClient(
		githubinfra.WithRetryMax(5),
		githubinfra.WithRetryWait(time.Millisecond, 5*time.Millisecond),
		githubinfra.WithTimeout(200*time.Millisecond),
	)

	start := time.Now()
	var buf bytes.Buffer
	_, err := client.DownloadAsset(context.Background(), server.URL, &buf)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagNetwork))
	gt.True(t, time.Since(start) < time.Second)
}

func TestClient_DownloadAsset_KeepsCallerHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	hc := &http.Client{Timeout: 42 * time.Second}
	client := githubinfra.NewClient(
		githubinfra.WithRetryMax(0),
		githubinfra.WithHTTPClient(hc),
		githubinfra.WithTimeout(time.Second),
	)

	var buf bytes.Buffer
	_, err := client.DownloadAsset(context.Background(), server.URL, &buf)
	gt.NoError(t, err)
	gt.Value(t, hc.Timeout).Equal(42 * time.Second)
}
