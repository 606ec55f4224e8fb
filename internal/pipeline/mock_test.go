package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/pkg/render"
	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

// --- Storage Mock ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) ListFiles(ctx context.Context, folderPath string) ([]storage.FileMetadata, error) {
	args := m.Called(ctx, folderPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.FileMetadata), args.Error(1)
}

func (m *mockStorage) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStorage) UploadFile(ctx context.Context, data []byte, folderPath, filename string) (string, error) {
	args := m.Called(ctx, data, folderPath, filename)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DeleteFile(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Generator Mock ---

type mockGenerator struct {
	mock.Mock
	name string
}

func (m *mockGenerator) Name() string { return m.name }

func (m *mockGenerator) ProcessEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GeneratedDocument), args.Error(1)
}

// --- Render Engine Mock ---

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockEngine) Render(ctx context.Context, req render.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockEngine) Close() error {
	args := m.Called()
	return args.Error(0)
}
