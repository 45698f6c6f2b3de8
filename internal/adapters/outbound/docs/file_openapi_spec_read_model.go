package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	portsout "blaze/internal/application/ports/out"
	apperrors "blaze/internal/shared_kernel/errors"
)

type FileOpenAPISpecReadModel struct {
	path string

	mu      sync.Mutex
	content []byte
}

var _ portsout.OpenAPISpecReadModel = (*FileOpenAPISpecReadModel)(nil)

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{path: path}
}

// Read loads the document once; a failed read is retried on the next call.
func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.content == nil {
		content, err := os.ReadFile(r.path)
		if err != nil {
			return nil, "", apperrors.NewInternal(
				"OPENAPI_FILE_READ_FAILED",
				"failed to read OpenAPI spec file",
				map[string]any{"path": r.path},
			)
		}
		r.content = content
	}

	return r.content, contentTypeFor(r.path), nil
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "application/json; charset=utf-8"
	}
	return "application/yaml; charset=utf-8"
}
