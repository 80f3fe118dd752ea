package services

import (
	"context"
	"errors"
	"log"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/progress"
	"github.com/yukikurage/progress-bot/internal/utils"
)

var (
	ErrTargetVanished   = errors.New("target entity no longer exists")
	ErrAlreadyCompleted = errors.New("entity is already completed")
)

// ProposalOutcome tells the caller whether a confirmation should be staged.
type ProposalOutcome int

const (
	ProposalStaged ProposalOutcome = iota
	ProposalNoChange
	ProposalInvalid
)

// Proposal is the result of turning a judgment into a staged change. Pending is set only
// when Outcome is ProposalStaged.
type Proposal struct {
	Outcome ProposalOutcome
	Entity  models.Entity
	Pending *models.PendingConfirmation
}

// CommitResult carries the committed entity and, for a finished task with a live parent,
// the cascade offer to present next.
type CommitResult struct {
	Entity  models.Entity
	Cascade *models.CascadeOffer
}

// ProgressService stages and commits progress changes.
type ProgressService struct {
	store *Store
}

func NewProgressService(store *Store) *ProgressService {
	return &ProgressService{store: store}
}

// ProposeUpdate computes the new unit count for the entity. NoChange and Invalid outcomes
// never produce a pending confirmation.
func (s *ProgressService) ProposeUpdate(ctx context.Context, kind models.EntityKind, id string, judgment progress.Judgment) (Proposal, error) {
	var proposal Proposal
	err := s.store.View(ctx, func(doc *models.Document) error {
		e := doc.FindEntity(kind, id)
		if e == nil {
			return ErrEntityNotFound
		}
		proposal.Entity = *e

		result := progress.Compute(judgment, e.CurrentUnits, e.TotalUnits)
		switch result.Outcome {
		case progress.Invalid:
			proposal.Outcome = ProposalInvalid
		case progress.NoChange:
			proposal.Outcome = ProposalNoChange
		default:
			proposal.Outcome = ProposalStaged
			proposal.Pending = &models.PendingConfirmation{
				ProposalID:      utils.ShortID(),
				ItemID:          e.ID,
				ItemName:        e.Name,
				ItemType:        e.Kind,
				TotalUnits:      e.TotalUnits,
				NewCurrentUnits: result.Value,
				OldCurrentUnits: e.CurrentUnits,
				ActionType:      models.ActionUpdate,
			}
		}
		return nil
	})
	return proposal, err
}

// ProposeCompletion stages a completion of an active entity. The target is the fixed total,
// or the virtual scale when the entity has none.
func (s *ProgressService) ProposeCompletion(ctx context.Context, kind models.EntityKind, id string) (Proposal, error) {
	var proposal Proposal
	err := s.store.View(ctx, func(doc *models.Document) error {
		e := doc.FindEntity(kind, id)
		if e == nil {
			return ErrEntityNotFound
		}
		proposal.Entity = *e
		if e.IsCompleted() {
			return ErrAlreadyCompleted
		}

		scale := progress.ScaleContext(e.TotalUnits)
		proposal.Outcome = ProposalStaged
		proposal.Pending = &models.PendingConfirmation{
			ProposalID:      utils.ShortID(),
			ItemID:          e.ID,
			ItemName:        e.Name,
			ItemType:        e.Kind,
			TotalUnits:      scale,
			NewCurrentUnits: scale,
			OldCurrentUnits: e.CurrentUnits,
			ActionType:      models.ActionComplete,
		}
		return nil
	})
	return proposal, err
}

// Commit applies an accepted confirmation to a freshly loaded entity.
func (s *ProgressService) Commit(ctx context.Context, pending models.PendingConfirmation) (CommitResult, error) {
	var result CommitResult
	err := s.store.Update(ctx, func(doc *models.Document) error {
		e := doc.FindEntity(pending.ItemType, pending.ItemID)
		if e == nil {
			return ErrTargetVanished
		}

		e.CurrentUnits = progress.Clamp(pending.NewCurrentUnits, e.TotalUnits)
		if pending.ActionType == models.ActionComplete {
			e.Status = models.StatusCompleted
			// lock the virtual scale so later percentages stay consistent
			if e.TotalUnits == 0 {
				e.TotalUnits = constants.VirtualScale
			}
		}
		result.Entity = *e

		if pending.ActionType == models.ActionComplete && e.HasParent() {
			if project := doc.FindProject(*e.ProjectID); project != nil {
				result.Cascade = &models.CascadeOffer{
					ProjectID:   project.ID,
					ProjectName: project.Name,
					TaskName:    e.Name,
					Increment:   constants.CascadeIncrement,
				}
			}
		}
		return nil
	})
	if err != nil {
		return CommitResult{}, err
	}

	log.Printf("Committed %s of %s %s: %d -> %d", pending.ActionType, pending.ItemType, pending.ItemID, pending.OldCurrentUnits, result.Entity.CurrentUnits)
	return result, nil
}

// ApplyCascade adds the offered increment to the parent project, bounded by its total.
func (s *ProgressService) ApplyCascade(ctx context.Context, offer models.CascadeOffer) (models.Entity, error) {
	var project models.Entity
	err := s.store.Update(ctx, func(doc *models.Document) error {
		p := doc.FindProject(offer.ProjectID)
		if p == nil {
			return ErrTargetVanished
		}
		p.CurrentUnits = progress.Clamp(p.CurrentUnits+offer.Increment, p.TotalUnits)
		project = *p
		return nil
	})
	if err != nil {
		return models.Entity{}, err
	}

	log.Printf("Cascaded +%d to project %s, now %d", offer.Increment, offer.ProjectID, project.CurrentUnits)
	return project, nil
}
