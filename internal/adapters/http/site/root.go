// Package site serves the rendered board files from the output directory.
package site

import (
	"context"
	"io/fs"
	"net/http"
)

// Prefix is the URL path the output directory is mounted under.
const Prefix = "/board/"

// Register mounts dir at Prefix on mux. Directory listings are disabled.
func Register(_ context.Context, mux *http.ServeMux, dir string) {
	if mux == nil {
		panic("mux is nil")
	}
	files := http.StripPrefix(Prefix, http.FileServer(noListing{http.Dir(dir)}))
	mux.Handle(Prefix, files)
}

// noListing hides directories so only named board files are reachable.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
