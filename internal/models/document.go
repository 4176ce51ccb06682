package models

import (
	"io"
	"path/filepath"
	"strings"
)

// Document is an uploaded file held in memory for the lifetime of a request.
type Document struct {
	Filename string
	Reader   io.ReaderAt
	Size     int64
}

// Extension returns the lower-cased file extension including the dot.
func (d Document) Extension() string {
	return strings.ToLower(filepath.Ext(d.Filename))
}
