package session

import (
	"errors"
	"sync"
	"time"

	"github.com/yukikurage/progress-bot/internal/models"
)

var (
	ErrNoPendingConfirmation = errors.New("no pending confirmation")
	ErrStaleConfirmation     = errors.New("confirmation does not match the pending proposal")
)

// Dialog names the multi-step conversation a session is in.
type Dialog string

const (
	DialogNone     Dialog = ""
	DialogProject  Dialog = "project"
	DialogTask     Dialog = "task"
	DialogProgress Dialog = "progress"
)

// Step is the state within a dialog.
type Step string

const (
	StepName        Step = "name"
	StepDeadline    Step = "deadline"
	StepGoal        Step = "goal"
	StepProjectLink Step = "project_link"
	StepItemType    Step = "item_type"
	StepItemName    Step = "item_name"
	StepDescription Step = "description"
)

// Draft is a partially built project or task.
type Draft struct {
	Name        string
	Deadline    *time.Time
	ProjectID   *string
	ProjectName string
}

// Target is the entity a progress dialog is about.
type Target struct {
	ID   string
	Name string
	Kind models.EntityKind
}

// State is everything ephemeral a session carries between events.
type State struct {
	Dialog Dialog
	Step   Step
	Draft  Draft
	// ItemKind is the type picked in the progress dialog.
	ItemKind models.EntityKind
	Target   *Target
	Pending  *models.PendingConfirmation
}

// Begin enters a dialog at its first step, dropping any earlier draft.
func (s *State) Begin(dialog Dialog, step Step) {
	s.EndDialog()
	s.Dialog = dialog
	s.Step = step
}

// EndDialog leaves the current dialog. A staged confirmation survives.
func (s *State) EndDialog() {
	s.Dialog = DialogNone
	s.Step = ""
	s.Draft = Draft{}
	s.ItemKind = ""
	s.Target = nil
}

// Reset clears the dialog marker, drafts and the pending confirmation.
func (s *State) Reset() {
	s.EndDialog()
	s.Pending = nil
}

func (s *State) InDialog() bool {
	return s.Dialog != DialogNone
}

// Stage replaces any earlier pending confirmation.
func (s *State) Stage(p *models.PendingConfirmation) {
	s.Pending = p
}

// TakePending removes and returns the pending confirmation when proposalID matches it.
// A mismatch leaves the pending confirmation in place.
func (s *State) TakePending(proposalID string) (*models.PendingConfirmation, error) {
	if s.Pending == nil {
		return nil, ErrNoPendingConfirmation
	}
	if s.Pending.ProposalID != proposalID {
		return nil, ErrStaleConfirmation
	}
	p := s.Pending
	s.Pending = nil
	return p, nil
}

type entry struct {
	mu    sync.Mutex
	state State
}

// Manager holds per-session state in memory. Acquire serializes the events of one session
// while different sessions proceed in parallel.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*entry)}
}

// Acquire locks the session and returns its state with the matching release function.
func (m *Manager) Acquire(sessionID string) (*State, func()) {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{}
		m.sessions[sessionID] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	return &e.state, e.mu.Unlock
}

// Len reports how many sessions have been seen.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
