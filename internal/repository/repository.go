package repository

import (
	"context"

	"github.com/yukikurage/progress-bot/internal/models"
)

// DocumentRepository loads and saves the whole bot state at once. There are no partial writes:
// callers load once per unit of work, mutate in memory and save once.
type DocumentRepository interface {
	// Load returns the full document, or an empty one when nothing has been saved yet.
	Load(ctx context.Context) (*models.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *models.Document) error
}
