// mmap_other.go -- non-unix platforms have no mmap fast path; File.UseMmap
// falls back to plain syscall reads (see storage_file.go's open()).
//
// Author: Sudhi Herle <sudhi@herle.net>

//go:build !unix

package cdb

import "os"

type mmapHandle struct{}

func newMmapHandle(fd *os.File) (*mmapHandle, error) {
	return nil, ErrDisabled
}

func (h *mmapHandle) Read(buf []byte) (int, error)  { return 0, ErrDisabled }
func (h *mmapHandle) Write(buf []byte) (int, error) { return 0, ErrDisabled }
func (h *mmapHandle) Seek(offset uint64) error       { return ErrDisabled }
func (h *mmapHandle) Close() error                   { return nil }
