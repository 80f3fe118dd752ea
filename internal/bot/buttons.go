package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/session"
	"github.com/yukikurage/progress-bot/internal/tokens"
	"github.com/yukikurage/progress-bot/internal/utils"
)

func (b *Bot) handleButton(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	token, err := tokens.Parse(ev.Token)
	if err != nil {
		log.Printf("Session %s pressed malformed button %q: %v", ev.SessionID, ev.Token, err)
		return dto.TextReply(msgSomethingWrong)
	}

	switch token.Action {
	case constants.TokenActionConfirm:
		return b.confirmButton(ctx, ev, st, token)
	case constants.TokenActionCascade:
		return b.cascadeButton(ctx, ev, token)
	case constants.TokenActionProgressType:
		return b.progressTypeButton(ev, st, token)
	case constants.TokenActionPace:
		return b.paceButton(ctx, ev, token)
	}
	log.Printf("Session %s pressed unhandled button %q", ev.SessionID, ev.Token)
	return dto.TextReply(msgSomethingWrong)
}

// confirmButton resolves the pending confirmation the button was issued for. Stale or
// repeated presses never mutate the store.
func (b *Bot) confirmButton(ctx context.Context, ev dto.Event, st *session.State, token tokens.Token) dto.Reply {
	accept, proposalID, err := token.ConfirmAnswer()
	if err != nil {
		log.Printf("Session %s: %v", ev.SessionID, err)
		return dto.TextReply(msgSomethingWrong)
	}

	pending, err := st.TakePending(proposalID)
	switch {
	case errors.Is(err, session.ErrNoPendingConfirmation):
		return dto.TextReply(msgNoPending)
	case errors.Is(err, session.ErrStaleConfirmation):
		return dto.TextReply(msgStaleConfirmation)
	}

	if !accept {
		log.Printf("Session %s rejected proposal %s for %s", ev.SessionID, proposalID, pending.ItemID)
		return dto.TextReply(msgUpdateCancelled)
	}

	result, err := b.progress.Commit(ctx, *pending)
	if err != nil {
		if errors.Is(err, services.ErrTargetVanished) {
			return dto.TextReply(fmt.Sprintf("'%s' no longer exists, nothing was changed.", pending.ItemName))
		}
		log.Printf("Failed to commit proposal %s: %v", proposalID, err)
		return dto.TextReply(msgSomethingWrong)
	}

	var r dto.Reply
	e := result.Entity
	if pending.ActionType == models.ActionComplete {
		r.Say(fmt.Sprintf("%s '%s' completed! Progress: %s", kindLabel(e.Kind), e.Name, services.FormatProgress(e)))
	} else {
		r.Say(fmt.Sprintf("Progress for '%s' updated: %s", e.Name, services.FormatProgress(e)))
	}

	if offer := result.Cascade; offer != nil {
		r.Say(fmt.Sprintf("Task '%s' belongs to project '%s'. Add %d unit(s) of progress to the project?",
			offer.TaskName, offer.ProjectName, offer.Increment), cascadeButtons(*offer)...)
	}
	return r
}

func (b *Bot) cascadeButton(ctx context.Context, ev dto.Event, token tokens.Token) dto.Reply {
	accept, offer, err := token.CascadeAnswer()
	if err != nil {
		log.Printf("Session %s: %v", ev.SessionID, err)
		return dto.TextReply(msgSomethingWrong)
	}
	if !accept {
		return dto.TextReply("OK, the project was left unchanged.")
	}

	project, err := b.progress.ApplyCascade(ctx, offer)
	if err != nil {
		if errors.Is(err, services.ErrTargetVanished) {
			return dto.TextReply("The project no longer exists.")
		}
		log.Printf("Failed to cascade to project %s: %v", offer.ProjectID, err)
		return dto.TextReply(msgSomethingWrong)
	}
	return dto.TextReply(fmt.Sprintf("Project '%s' progress: %s", project.Name, services.FormatProgress(project)))
}

// progressTypeButton answers the item type question of the progress dialog. Presses outside
// that step are ignored.
func (b *Bot) progressTypeButton(ev dto.Event, st *session.State, token tokens.Token) dto.Reply {
	choice, err := token.ProgressTypeChoice()
	if err != nil {
		log.Printf("Session %s: %v", ev.SessionID, err)
		return dto.TextReply(msgSomethingWrong)
	}
	if st.Dialog != session.DialogProgress || st.Step != session.StepItemType {
		return dto.TextReply("This choice is no longer active. Use /progress to start again.")
	}

	if choice == constants.TokenCancel {
		st.EndDialog()
		return dto.TextReply("Cancelled.")
	}

	st.ItemKind = models.EntityKind(choice)
	st.Step = session.StepItemName
	return dto.TextReply(fmt.Sprintf("Which %s? Send its name or ID.", choice))
}

func (b *Bot) paceButton(ctx context.Context, ev dto.Event, token tokens.Token) dto.Reply {
	itemID, err := token.PaceItemID()
	if err != nil {
		log.Printf("Session %s: %v", ev.SessionID, err)
		return dto.TextReply(msgSomethingWrong)
	}

	e, err := b.entities.Get(ctx, models.KindProject, itemID)
	if errors.Is(err, services.ErrEntityNotFound) {
		e, err = b.entities.Get(ctx, models.KindTask, itemID)
	}
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			return dto.TextReply(msgTargetVanished)
		}
		log.Printf("Failed to load %s for pace: %v", itemID, err)
		return dto.TextReply(msgSomethingWrong)
	}

	pace, ok := utils.ComputePace(e.CreatedAt, e.Deadline, b.now(), e.CurrentUnits, e.TotalUnits)
	if !ok {
		return dto.TextReply(fmt.Sprintf("Not enough information to compute the pace of '%s'.", e.Name))
	}
	return dto.TextReply(paceText(*e, pace))
}
