package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/progress"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/session"
)

// Interpreter is the language-understanding collaborator. Both calls are unreliable: nil and
// Unknown are ordinary results.
type Interpreter interface {
	InterpretIntent(ctx context.Context, text string, today time.Time) *services.Intent
	InterpretProgress(ctx context.Context, description string, scale int) progress.Judgment
}

// Bot turns chat events into replies. Each event is one unit of work; events of the same
// session are handled one at a time.
type Bot struct {
	entities *services.EntityService
	users    *services.UserService
	progress *services.ProgressService
	reports  *services.ReportService
	ai       Interpreter
	sessions *session.Manager
	now      func() time.Time
}

func New(store *services.Store, ai Interpreter, reports *services.ReportService) *Bot {
	return &Bot{
		entities: services.NewEntityService(store),
		users:    services.NewUserService(store),
		progress: services.NewProgressService(store),
		reports:  reports,
		ai:       ai,
		sessions: session.NewManager(),
		now:      time.Now,
	}
}

// Handle processes one inbound event.
func (b *Bot) Handle(ctx context.Context, ev dto.Event) dto.Reply {
	st, release := b.sessions.Acquire(ev.SessionID)
	defer release()

	if ev.Type == dto.EventButtonPress {
		return b.handleButton(ctx, ev, st)
	}
	return b.handleMessage(ctx, ev, st)
}

func (b *Bot) handleMessage(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	text := strings.TrimSpace(ev.Text)

	if command, ok := parseCommand(text); ok {
		if handler, known := b.commands()[command]; known {
			return handler(ctx, ev, st)
		}
		if !st.InDialog() {
			return dto.TextReply(fmt.Sprintf("Unknown command /%s. See /help.", command))
		}
	}

	if st.InDialog() {
		return b.handleDialog(ctx, ev, st, text)
	}
	return b.handleIntent(ctx, ev, st, text)
}

// parseCommand returns the lower-cased command name without the slash or a @bot suffix.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), true
}

type commandHandler func(ctx context.Context, ev dto.Event, st *session.State) dto.Reply

func (b *Bot) commands() map[string]commandHandler {
	return map[string]commandHandler{
		"start":      b.startCommand,
		"help":       b.helpCommand,
		"newproject": b.newProjectCommand,
		"newtask":    b.newTaskCommand,
		"progress":   b.progressCommand,
		"cancel":     b.cancelCommand,
		"report":     b.reportCommand,
	}
}

func (b *Bot) startCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	user, err := b.users.Register(ctx, ev.Sender(), ev.Username)
	if err != nil {
		log.Printf("Failed to register user %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	log.Printf("User %s (%s) started, admin: %t", user.ID, user.Username, user.IsAdmin)
	return dto.TextReply(fmt.Sprintf("Hi, %s! I keep track of your projects and tasks. See /help.", user.Username))
}

const helpText = `Commands:
/start, /help
/newproject - create a project
/newtask - create a task
/progress - update progress
/cancel - abandon the current dialog

You can also just write:
"create project X deadline Y"
"add task Z for project X"
"progress on task X +5"
"status" or "my tasks"
"pause reports" / "resume reports"`

func (b *Bot) helpCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	text := helpText
	if admin, err := b.users.IsAdmin(ctx, ev.Sender()); err == nil && admin {
		text += "\n\nAdmin commands:\n/report - preview the daily report"
	}
	return dto.TextReply(text)
}

func (b *Bot) newProjectCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	st.Begin(session.DialogProject, session.StepName)
	return dto.TextReply("Name of the new project? (/cancel to abort)")
}

func (b *Bot) newTaskCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	st.Begin(session.DialogTask, session.StepName)
	return dto.TextReply("Name of the new task? (/cancel to abort)")
}

func (b *Bot) progressCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	st.Begin(session.DialogProgress, session.StepItemType)
	var r dto.Reply
	r.Say("Update progress for what?", itemTypeButtons()...)
	return r
}

func (b *Bot) cancelCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	log.Printf("Session %s cancelled (dialog: %q)", ev.SessionID, st.Dialog)
	st.Reset()
	return dto.TextReply("Cancelled.")
}

func (b *Bot) reportCommand(ctx context.Context, ev dto.Event, st *session.State) dto.Reply {
	admin, err := b.users.IsAdmin(ctx, ev.Sender())
	if err != nil {
		log.Printf("Failed to check admin %s: %v", ev.Sender(), err)
		return dto.TextReply(msgSomethingWrong)
	}
	if !admin {
		return dto.TextReply("This command is for admins only.")
	}

	messages, err := b.reports.Daily(ctx, b.now())
	if err != nil {
		log.Printf("Failed to build daily report: %v", err)
		return dto.TextReply(msgSomethingWrong)
	}

	var r dto.Reply
	r.Say(fmt.Sprintf("Daily report preview: %d recipient(s).", len(messages)))
	for _, m := range messages {
		r.Say(fmt.Sprintf("To %s:\n%s", m.UserID, m.Text))
	}
	return r
}
