package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/repository"
)

// Store serializes every read-modify-write of the document. Each call loads a fresh snapshot,
// so no state is cached between units of work.
type Store struct {
	repo     repository.DocumentRepository
	adminIDs []string
	mu       sync.Mutex
}

// NewStore creates a Store. adminIDs from the environment are merged into the persisted
// allow-list on every load.
func NewStore(repo repository.DocumentRepository, adminIDs []string) *Store {
	return &Store{
		repo:     repo,
		adminIDs: adminIDs,
	}
}

func (s *Store) load(ctx context.Context) (*models.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	doc.Normalize()
	doc.MergeAdmins(s.adminIDs)
	return doc, nil
}

// View runs fn against a fresh snapshot. Changes made by fn are discarded.
func (s *Store) View(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update runs fn against a fresh snapshot and saves the result when fn succeeds.
// A failed save is logged and otherwise ignored.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		log.Printf("Failed to save store: %v", err)
	}
	return nil
}
