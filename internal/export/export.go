// Package export writes scan records to composite.txt and composite.bin.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fdscan/internal/model"
)

const (
	TextFile   = "composite.txt"
	BinaryFile = "composite.bin"
)

// WriteTextFile overwrites dir/composite.txt with the text export of c.
func WriteTextFile(dir string, c *model.Collection) (string, error) {
	return writeFile(filepath.Join(dir, TextFile), c, WriteText)
}

// WriteBinaryFile overwrites dir/composite.bin with the binary export of c.
func WriteBinaryFile(dir string, c *model.Collection) (string, error) {
	return writeFile(filepath.Join(dir, BinaryFile), c, WriteBinary)
}

func writeFile(path string, c *model.Collection, write func(io.Writer, *model.Collection) error) (string, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return path, fmt.Errorf("open %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw, c); err != nil {
		f.Close()
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
