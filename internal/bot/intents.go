package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/progress"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/session"
	"github.com/yukikurage/progress-bot/internal/tokens"
	"github.com/yukikurage/progress-bot/internal/utils"
)

// handleIntent routes a free-text message outside any dialog by its interpreted intent.
func (b *Bot) handleIntent(ctx context.Context, ev dto.Event, st *session.State, text string) dto.Reply {
	if text == "" {
		return dto.TextReply(msgDidNotUnderstand)
	}

	intent := b.ai.InterpretIntent(ctx, text, b.now())
	if intent == nil {
		return dto.TextReply(msgDidNotUnderstand)
	}
	log.Printf("Session %s intent: %s", ev.SessionID, intent.Name)

	switch intent.Name {
	case services.IntentAddProject:
		return b.addProjectIntent(ctx, ev, intent.Entities)
	case services.IntentAddTask:
		return b.addTaskIntent(ctx, ev, intent.Entities)
	case services.IntentUpdateProgress:
		return b.updateProgressIntent(ctx, st, intent.Entities)
	case services.IntentCompleteItem:
		return b.completeItemIntent(ctx, st, intent.Entities)
	case services.IntentQueryStatus:
		return b.queryStatusIntent(ctx, ev, intent.Entities)
	case services.IntentPauseReports:
		return b.toggleReports(ctx, ev, false)
	case services.IntentResumeReports:
		return b.toggleReports(ctx, ev, true)
	default:
		return dto.TextReply(msgDidNotUnderstand)
	}
}

// itemKind maps the interpreter's item_type slot to an entity kind. Anything else means
// both pools.
func itemKind(itemType string) models.EntityKind {
	switch strings.ToLower(strings.TrimSpace(itemType)) {
	case string(models.KindProject):
		return models.KindProject
	case string(models.KindTask):
		return models.KindTask
	default:
		return ""
	}
}

func (b *Bot) addProjectIntent(ctx context.Context, ev dto.Event, slots services.IntentEntities) dto.Reply {
	name := strings.TrimSpace(slots.ItemNameHint)
	if name == "" {
		return dto.TextReply("What should the project be called? Use /newproject to create it step by step.")
	}

	input := services.CreateEntityInput{Kind: models.KindProject, Name: name, OwnerID: ev.Sender()}
	if !utils.IsSkipWord(slots.Deadline) {
		deadline, ok := utils.ParseDeadline(slots.Deadline, b.now())
		if !ok {
			return dto.TextReply(fmt.Sprintf("I couldn't understand the deadline '%s'. Use /newproject to create the project step by step.", slots.Deadline))
		}
		input.Deadline = &deadline
	}

	entity, err := b.entities.Create(ctx, input)
	if err != nil {
		log.Printf("Failed to create project for %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	return dto.TextReply(createdText(*entity, ""))
}

func (b *Bot) addTaskIntent(ctx context.Context, ev dto.Event, slots services.IntentEntities) dto.Reply {
	name := strings.TrimSpace(slots.ItemNameHint)
	if name == "" {
		return dto.TextReply("What should the task be called? Use /newtask to create it step by step.")
	}

	input := services.CreateEntityInput{Kind: models.KindTask, Name: name, OwnerID: ev.Sender()}
	if !utils.IsSkipWord(slots.Deadline) {
		deadline, ok := utils.ParseDeadline(slots.Deadline, b.now())
		if !ok {
			return dto.TextReply(fmt.Sprintf("I couldn't understand the deadline '%s'. Use /newtask to create the task step by step.", slots.Deadline))
		}
		input.Deadline = &deadline
	}

	var notes []string
	projectName := ""
	if hint := strings.TrimSpace(slots.ProjectNameHint); hint != "" {
		project, err := b.entities.Resolve(ctx, hint, models.KindProject)
		switch {
		case err == nil:
			input.ProjectID = &project.ID
			projectName = project.Name
		case errors.Is(err, services.ErrEntityNotFound):
			notes = append(notes, fmt.Sprintf("Project '%s' not found, so the task is not linked to a project.", hint))
		default:
			log.Printf("Failed to resolve project %q: %v", hint, err)
			return dto.TextReply(msgSomethingWrong)
		}
	}

	entity, err := b.entities.Create(ctx, input)
	if err != nil {
		log.Printf("Failed to create task for %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}

	var r dto.Reply
	for _, note := range notes {
		r.Say(note)
	}
	r.Say(createdText(*entity, projectName))
	return r
}

func (b *Bot) updateProgressIntent(ctx context.Context, st *session.State, slots services.IntentEntities) dto.Reply {
	e, err := b.entities.Resolve(ctx, slots.ItemNameHint, itemKind(slots.ItemType))
	if err != nil {
		return b.intentNotFound(ctx, err, slots)
	}
	target := session.Target{ID: e.ID, Name: e.Name, Kind: e.Kind}
	description := strings.TrimSpace(slots.ProgressDescription)
	if description == "" {
		b.awaitDescription(st, target)
		return dto.TextReply(fmt.Sprintf("'%s' is at %s. %s", e.Name, services.FormatProgress(*e), msgDescribeProgress))
	}

	judgment := b.ai.InterpretProgress(ctx, description, progress.ScaleContext(e.TotalUnits))
	if judgment.IsUnknown() {
		b.awaitDescription(st, target)
		return dto.TextReply(msgUnclearProgress)
	}
	return b.stageProgress(ctx, st, target, judgment)
}

func (b *Bot) completeItemIntent(ctx context.Context, st *session.State, slots services.IntentEntities) dto.Reply {
	e, err := b.entities.Resolve(ctx, slots.ItemNameHint, itemKind(slots.ItemType))
	if err != nil {
		return b.intentNotFound(ctx, err, slots)
	}
	return b.stageCompletion(ctx, st, session.Target{ID: e.ID, Name: e.Name, Kind: e.Kind})
}

func (b *Bot) queryStatusIntent(ctx context.Context, ev dto.Event, slots services.IntentEntities) dto.Reply {
	kind := itemKind(slots.ItemType)

	if hint := strings.TrimSpace(slots.ItemNameHint); hint != "" {
		e, err := b.entities.Resolve(ctx, hint, kind)
		if err != nil {
			return b.intentNotFound(ctx, err, slots)
		}
		var r dto.Reply
		var buttons []dto.Button
		if _, ok := utils.ComputePace(e.CreatedAt, e.Deadline, b.now(), e.CurrentUnits, e.TotalUnits); ok {
			buttons = append(buttons, dto.Button{Label: "Pace details", Token: tokens.Pace(e.ID)})
		}
		r.Say(statusText(*e, b.now()), buttons...)
		return r
	}

	var r dto.Reply
	for _, k := range []models.EntityKind{models.KindProject, models.KindTask} {
		if kind != "" && kind != k {
			continue
		}
		active, err := b.entities.ListActive(ctx, ev.Sender(), k)
		if err != nil {
			log.Printf("Failed to list %s for %s: %v", k, ev.Sender(), err)
			return dto.TextReply(msgSomethingWrong)
		}
		r.Say(listText("Your active "+string(k)+"s", active, b.now()))
	}
	return r
}

func (b *Bot) toggleReports(ctx context.Context, ev dto.Event, enabled bool) dto.Reply {
	if _, err := b.users.Register(ctx, ev.Sender(), ev.Username); err != nil {
		log.Printf("Failed to register user %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	if err := b.users.SetReceiveReports(ctx, ev.Sender(), enabled); err != nil {
		log.Printf("Failed to toggle reports for %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	if enabled {
		return dto.TextReply("Daily reports resumed.")
	}
	return dto.TextReply("Daily reports paused. Say \"resume reports\" to get them again.")
}

func (b *Bot) intentNotFound(ctx context.Context, err error, slots services.IntentEntities) dto.Reply {
	if strings.TrimSpace(slots.ItemNameHint) == "" && errors.Is(err, services.ErrEntityNotFound) {
		return dto.TextReply("Which item do you mean? Use /progress to pick it step by step.")
	}
	return b.notFoundReply(ctx, err, slots.ItemNameHint, itemKind(slots.ItemType))
}
