package services

import (
	"errors"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/yukikurage/progress-bot/internal/models"
)

var ErrEntityNotFound = errors.New("entity not found")

// suggestionThreshold is the minimum fuzzy ratio for a "did you mean" hint.
const suggestionThreshold = 60

// pools lists the kinds to search for a hint, projects first. An empty hint searches both.
func pools(hint models.EntityKind) []models.EntityKind {
	switch hint {
	case models.KindProject:
		return []models.EntityKind{models.KindProject}
	case models.KindTask:
		return []models.EntityKind{models.KindTask}
	default:
		return []models.EntityKind{models.KindProject, models.KindTask}
	}
}

// Resolve finds exactly one entity for a user supplied hint. An exact ID match in any allowed
// pool wins over names; otherwise the first case-insensitive substring match in store order,
// projects before tasks.
func Resolve(doc *models.Document, query string, hint models.EntityKind) (*models.Entity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEntityNotFound
	}

	kinds := pools(hint)
	for _, kind := range kinds {
		if e := doc.FindEntity(kind, query); e != nil {
			return e, nil
		}
	}

	needle := strings.ToLower(query)
	for _, kind := range kinds {
		pool := doc.Pool(kind)
		for i := range pool {
			if strings.Contains(strings.ToLower(pool[i].Name), needle) {
				return &pool[i], nil
			}
		}
	}

	return nil, ErrEntityNotFound
}

// Suggest returns the closest entity name by fuzzy ratio, or false when nothing is close enough.
func Suggest(doc *models.Document, query string, hint models.EntityKind) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return "", false
	}

	best, bestScore := "", 0
	for _, kind := range pools(hint) {
		for _, e := range doc.Pool(kind) {
			score := fuzzy.Ratio(needle, strings.ToLower(e.Name))
			if score > bestScore {
				best, bestScore = e.Name, score
			}
		}
	}
	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}
