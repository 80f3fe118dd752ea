package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/yukikurage/progress-bot/internal/models"
)

// FileDocumentRepository keeps the document as one JSON file, replaced atomically on every save.
type FileDocumentRepository struct {
	path string
}

func NewFileDocumentRepository(path string) DocumentRepository {
	return &FileDocumentRepository{path: path}
}

func (r *FileDocumentRepository) Load(ctx context.Context) (*models.Document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadDocument, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoadDocument, r.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

func (r *FileDocumentRepository) Save(ctx context.Context, doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSaveDocument, err)
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}
	return nil
}
