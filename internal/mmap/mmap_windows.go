//go:build windows

package mmap

import (
	"io"
	"os"
)

// Windows fallback: read the file into memory. Checkpoint blobs are read
// whole anyway, so the copy matches the access pattern.
func osMap(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}

func osUnmap([]byte) error { return nil }
