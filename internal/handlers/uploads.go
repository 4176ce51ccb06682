package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"glauniversity/ats-matcher/internal/models"
)

var errFileTooLarge = errors.New("file too large")

// openedUploads holds multipart files opened for reading. Close releases them.
type openedUploads struct {
	docs  []models.Document
	files []multipart.File
}

func (o *openedUploads) Close() {
	for _, f := range o.files {
		f.Close()
	}
}

// openUploads opens every header in order after checking its size.
func openUploads(headers []*multipart.FileHeader, maxFileSize int64) (*openedUploads, error) {
	opened := &openedUploads{}

	for _, header := range headers {
		if maxFileSize > 0 && header.Size > maxFileSize {
			opened.Close()
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", errFileTooLarge, header.Filename, maxFileSize)
		}

		f, err := header.Open()
		if err != nil {
			opened.Close()
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}

		opened.files = append(opened.files, f)
		opened.docs = append(opened.docs, models.Document{
			Filename: header.Filename,
			Reader:   f,
			Size:     header.Size,
		})
	}

	return opened, nil
}
