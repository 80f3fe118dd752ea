package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/progress"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/session"
	"github.com/yukikurage/progress-bot/internal/utils"
)

// handleDialog feeds text to the step the session is waiting on. Unexpected input re-enters
// the same step with a corrective message.
func (b *Bot) handleDialog(ctx context.Context, ev dto.Event, st *session.State, text string) dto.Reply {
	switch st.Dialog {
	case session.DialogProject:
		return b.projectDialog(ctx, ev, st, text)
	case session.DialogTask:
		return b.taskDialog(ctx, ev, st, text)
	case session.DialogProgress:
		return b.progressDialog(ctx, ev, st, text)
	default:
		log.Printf("Session %s in unknown dialog %q, resetting", ev.SessionID, st.Dialog)
		st.EndDialog()
		return dto.TextReply(msgSomethingWrong)
	}
}

func (b *Bot) projectDialog(ctx context.Context, ev dto.Event, st *session.State, text string) dto.Reply {
	switch st.Step {
	case session.StepName:
		if text == "" {
			return dto.TextReply("The name can't be empty. Name of the new project?")
		}
		st.Draft.Name = text
		st.Step = session.StepDeadline
		return dto.TextReply(msgDeadlinePrompt)

	case session.StepDeadline:
		if reply, ok := b.deadlineStep(st, text); !ok {
			return reply
		}
		st.Step = session.StepGoal
		return dto.TextReply(fmt.Sprintf("How many units make up the goal? (/skip for %d)", constants.DefaultProjectGoal))

	case session.StepGoal:
		goal, ok := parseGoal(text, constants.DefaultProjectGoal)
		if !ok {
			return dto.TextReply("Please send a positive whole number, or /skip.")
		}
		return b.finishCreation(ctx, ev, st, models.KindProject, goal)
	}
	return b.unknownStep(ev, st)
}

func (b *Bot) taskDialog(ctx context.Context, ev dto.Event, st *session.State, text string) dto.Reply {
	switch st.Step {
	case session.StepName:
		if text == "" {
			return dto.TextReply("The name can't be empty. Name of the new task?")
		}
		st.Draft.Name = text
		st.Step = session.StepProjectLink
		return dto.TextReply("Which project does it belong to? Send its name or ID, or /skip.")

	case session.StepProjectLink:
		if utils.IsSkipWord(text) {
			st.Draft.ProjectID = nil
		} else {
			project, err := b.entities.Resolve(ctx, text, models.KindProject)
			if err != nil {
				return b.notFoundReply(ctx, err, text, models.KindProject)
			}
			st.Draft.ProjectID = &project.ID
			st.Draft.ProjectName = project.Name
		}
		st.Step = session.StepDeadline
		return dto.TextReply(msgDeadlinePrompt)

	case session.StepDeadline:
		if reply, ok := b.deadlineStep(st, text); !ok {
			return reply
		}
		st.Step = session.StepGoal
		return dto.TextReply(fmt.Sprintf("How many units make up the goal? (/skip for %d, no fixed total)", constants.DefaultTaskGoal))

	case session.StepGoal:
		goal, ok := parseGoal(text, constants.DefaultTaskGoal)
		if !ok {
			return dto.TextReply("Please send a positive whole number, or /skip.")
		}
		return b.finishCreation(ctx, ev, st, models.KindTask, goal)
	}
	return b.unknownStep(ev, st)
}

func (b *Bot) progressDialog(ctx context.Context, ev dto.Event, st *session.State, text string) dto.Reply {
	switch st.Step {
	case session.StepItemType:
		var r dto.Reply
		r.Say(msgPickItemType, itemTypeButtons()...)
		return r

	case session.StepItemName:
		e, err := b.entities.Resolve(ctx, text, st.ItemKind)
		if err != nil {
			return b.notFoundReply(ctx, err, text, st.ItemKind)
		}
		st.Target = &session.Target{ID: e.ID, Name: e.Name, Kind: e.Kind}
		st.Step = session.StepDescription
		return dto.TextReply(fmt.Sprintf("'%s' is at %s. %s", e.Name, services.FormatProgress(*e), msgDescribeProgress))

	case session.StepDescription:
		if st.Target == nil {
			return b.unknownStep(ev, st)
		}
		if text == "" {
			return dto.TextReply(msgDescribeProgress)
		}
		return b.describeProgress(ctx, st, *st.Target, text)
	}
	return b.unknownStep(ev, st)
}

// describeProgress interprets a description against the freshly loaded target and stages
// the resulting change. Unclear descriptions keep the session at the description step.
func (b *Bot) describeProgress(ctx context.Context, st *session.State, target session.Target, text string) dto.Reply {
	fresh, err := b.entities.Get(ctx, target.Kind, target.ID)
	if err != nil {
		st.EndDialog()
		if errors.Is(err, services.ErrEntityNotFound) {
			return dto.TextReply(msgTargetVanished)
		}
		log.Printf("Failed to load %s %s: %v", target.Kind, target.ID, err)
		return dto.TextReply(msgSomethingWrong)
	}

	judgment := b.ai.InterpretProgress(ctx, text, progress.ScaleContext(fresh.TotalUnits))
	if judgment.IsUnknown() {
		b.awaitDescription(st, target)
		return dto.TextReply(msgUnclearProgress)
	}
	return b.stageProgress(ctx, st, target, judgment)
}

// stageProgress turns a known judgment into a pending update. A complete judgment is an update
// to the full scale; only an explicit completion request changes the status.
func (b *Bot) stageProgress(ctx context.Context, st *session.State, target session.Target, judgment progress.Judgment) dto.Reply {
	proposal, err := b.progress.ProposeUpdate(ctx, target.Kind, target.ID, judgment)
	if err != nil {
		return b.proposalFailed(st, target, proposal, err)
	}

	switch proposal.Outcome {
	case services.ProposalInvalid:
		b.awaitDescription(st, target)
		return dto.TextReply(msgUnclearProgress)
	case services.ProposalNoChange:
		st.EndDialog()
		return dto.TextReply(fmt.Sprintf("No change: '%s' stays at %s.", proposal.Entity.Name, services.FormatProgress(proposal.Entity)))
	}
	return b.presentProposal(st, proposal)
}

// stageCompletion proposes marking the target completed.
func (b *Bot) stageCompletion(ctx context.Context, st *session.State, target session.Target) dto.Reply {
	proposal, err := b.progress.ProposeCompletion(ctx, target.Kind, target.ID)
	if err != nil {
		return b.proposalFailed(st, target, proposal, err)
	}
	return b.presentProposal(st, proposal)
}

func (b *Bot) presentProposal(st *session.State, proposal services.Proposal) dto.Reply {
	st.EndDialog()
	st.Stage(proposal.Pending)
	var r dto.Reply
	r.Say(confirmationText(proposal.Pending), confirmButtons(proposal.Pending.ProposalID)...)
	return r
}

func (b *Bot) proposalFailed(st *session.State, target session.Target, proposal services.Proposal, err error) dto.Reply {
	st.EndDialog()
	switch {
	case errors.Is(err, services.ErrEntityNotFound):
		return dto.TextReply(msgTargetVanished)
	case errors.Is(err, services.ErrAlreadyCompleted):
		return dto.TextReply(fmt.Sprintf("%s '%s' is already completed.", kindLabel(target.Kind), proposal.Entity.Name))
	}
	log.Printf("Failed to propose progress for %s %s: %v", target.Kind, target.ID, err)
	return dto.TextReply(msgSomethingWrong)
}

// awaitDescription parks the session at the description step for target.
func (b *Bot) awaitDescription(st *session.State, target session.Target) {
	if st.Dialog != session.DialogProgress || st.Step != session.StepDescription {
		st.Begin(session.DialogProgress, session.StepDescription)
	}
	st.ItemKind = target.Kind
	st.Target = &target
}

// deadlineStep stores the draft deadline. It reports false with a re-prompt when the text is
// neither a skip word nor a date.
func (b *Bot) deadlineStep(st *session.State, text string) (dto.Reply, bool) {
	if utils.IsSkipWord(text) {
		st.Draft.Deadline = nil
		return dto.Reply{}, true
	}
	deadline, ok := utils.ParseDeadline(text, b.now())
	if !ok {
		return dto.TextReply(msgDeadlineUnparsable), false
	}
	st.Draft.Deadline = &deadline
	return dto.Reply{}, true
}

// parseGoal accepts a positive integer, or a skip word for the default.
func parseGoal(text string, fallback int) (int, bool) {
	if utils.IsSkipWord(text) {
		return fallback, true
	}
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (b *Bot) finishCreation(ctx context.Context, ev dto.Event, st *session.State, kind models.EntityKind, goal int) dto.Reply {
	draft := st.Draft
	st.EndDialog()

	entity, err := b.entities.Create(ctx, services.CreateEntityInput{
		Kind:       kind,
		Name:       draft.Name,
		OwnerID:    ev.Sender(),
		Deadline:   draft.Deadline,
		TotalUnits: goal,
		ProjectID:  draft.ProjectID,
	})
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			return dto.TextReply(fmt.Sprintf("Project '%s' no longer exists. Start again with /newtask.", draft.ProjectName))
		}
		log.Printf("Failed to create %s for %s: %v", kind, ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	log.Printf("Created %s %s for user %s", kind, entity.ID, ev.Sender())
	return dto.TextReply(createdText(*entity, draft.ProjectName))
}

func createdText(e models.Entity, projectName string) string {
	text := fmt.Sprintf("%s '%s' created (id %s). Deadline: %s.", kindLabel(e.Kind), e.Name, e.ID, formatDeadline(e.Deadline))
	if e.TotalUnits > 0 {
		text += fmt.Sprintf(" Goal: %d units.", e.TotalUnits)
	}
	if projectName != "" {
		text += fmt.Sprintf(" Linked to project '%s'.", projectName)
	}
	return text
}

// notFoundReply keeps the current step and offers the closest match when there is one.
func (b *Bot) notFoundReply(ctx context.Context, err error, query string, hint models.EntityKind) dto.Reply {
	if !errors.Is(err, services.ErrEntityNotFound) {
		log.Printf("Failed to resolve %q: %v", query, err)
		return dto.TextReply(msgSomethingWrong)
	}
	what := "item"
	if hint != "" {
		what = string(hint)
	}
	text := fmt.Sprintf("I couldn't find a %s named '%s'.", what, query)
	if suggestion, ok := b.entities.Suggest(ctx, query, hint); ok {
		text += fmt.Sprintf(" Did you mean '%s'?", suggestion)
	}
	return dto.TextReply(text + " Try again, or /cancel.")
}

func (b *Bot) unknownStep(ev dto.Event, st *session.State) dto.Reply {
	log.Printf("Session %s at unknown step %q of dialog %q, resetting", ev.SessionID, st.Step, st.Dialog)
	st.EndDialog()
	return dto.TextReply(msgSomethingWrong)
}
