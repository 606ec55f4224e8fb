// Package storage provides clients for the remote file stores that hold
// uploaded spreadsheets and generated documents.
package storage

import (
	"context"
	"time"
)

// FileMetadata describes one remote file.
type FileMetadata struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Client defines the storage operations used by the processing pipeline.
// Implementations must make DeleteFile idempotent: deleting an already-absent
// file is not an error.
type Client interface {
	ListFiles(ctx context.Context, folderPath string) ([]FileMetadata, error)
	DownloadFile(ctx context.Context, id string) ([]byte, error)
	UploadFile(ctx context.Context, data []byte, folderPath, filename string) (string, error)
	DeleteFile(ctx context.Context, id string) error
}
