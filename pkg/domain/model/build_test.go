package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/plonk/pkg/domain/model"
)

func TestLibraryPath(t *testing.T) {
	gt.String(t, model.LibraryPath("foo", ".baz")).Equal("target/debug/libfoo.baz")
	gt.String(t, model.LibraryPath("foo", "baz")).Equal("target/debug/libfoo.baz")
	gt.String(t, model.LibraryPath("deno_ws", "dylib")).Equal("target/debug/libdeno_ws.dylib")
}

func TestLibraryExtension(t *testing.T) {
	testCases := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "linux", want: "so"},
		{goos: "windows", want: "dll"},
		{goos: "darwin", want: "dylib"},
		{goos: "plan9", wantErr: true},
		{goos: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.goos, func(t *testing.T) {
			ext, err := model.LibraryExtension(tc.goos)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.String(t, ext).Equal(tc.want)
		})
	}
}

func TestBuildRequest_LibraryName(t *testing.T) {
	testCases := []struct {
		name string
		req  model.BuildRequest
		want string
	}{
		{name: "plain directory", req: model.BuildRequest{Dir: "foo"}, want: "foo"},
		{name: "nested directory", req: model.BuildRequest{Dir: "deps/deno_websocket"}, want: "deno_websocket"},
		{name: "trailing slash", req: model.BuildRequest{Dir: "deps/deno_websocket/"}, want: "deno_websocket"},
		{name: "explicit name", req: model.BuildRequest{Dir: "deps/ws", Name: "deno_ws"}, want: "deno_ws"},
		{name: "hyphenated directory", req: model.BuildRequest{Dir: "deps/deno-websocket"}, want: "deno_websocket"},
		{name: "package", req: model.BuildRequest{Dir: "workspace", Package: "deno-ws"}, want: "deno_ws"},
		{name: "name over package", req: model.BuildRequest{Dir: "workspace", Package: "deno-ws", Name: "ws"}, want: "ws"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.String(t, tc.req.LibraryName()).Equal(tc.want)
		})
	}
}

func TestBuildRequest_LibraryName_CurrentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-module")
	gt.NoError(t, os.MkdirAll(dir, 0755))
	t.Chdir(dir)

	for _, d := range []string{".", "./"} {
		req := model.BuildRequest{Dir: d}
		gt.String(t, req.LibraryName()).Equal("my_module")
		gt.String(t, model.LibraryPath(req.LibraryName(), "so")).Equal("target/debug/libmy_module.so")
	}
}

func TestProfileLibraryPath(t *testing.T) {
	gt.String(t, model.ProfileLibraryPath("foo", ".so", false)).Equal("target/debug/libfoo.so")
	gt.String(t, model.ProfileLibraryPath("foo", "so", true)).Equal("target/release/libfoo.so")
}

func TestBuildRequest_IsRelease(t *testing.T) {
	gt.False(t, (&model.BuildRequest{}).IsRelease())
	gt.True(t, (&model.BuildRequest{Release: true}).IsRelease())
	gt.True(t, (&model.BuildRequest{ExtraArgs: []string{"--features", "ffi", "--release"}}).IsRelease())
	gt.True(t, (&model.BuildRequest{ExtraArgs: []string{"-r"}}).IsRelease())
}
