package constants

// Session and context keys
const (
	SessionCookieName   = "progress_bot_session"
	ContextKeyUserID    = "user_id"
	WebhookSecretHeader = "X-Webhook-Secret"
)

// Progress policy
const (
	// VirtualScale is the unit basis used for percentage math when an entity has no fixed total.
	VirtualScale = 100

	// CascadeIncrement is the number of units offered to a parent project when one of its tasks completes.
	CascadeIncrement = 1

	// DefaultProjectGoal is applied when the project wizard's goal step is skipped.
	DefaultProjectGoal = 100

	// DefaultTaskGoal is applied when the task wizard's goal step is skipped.
	DefaultTaskGoal = 0
)

// Identifier prefixes
const (
	ProjectIDPrefix = "proj"
	TaskIDPrefix    = "task"
)

// Button token layout
const (
	TokenSeparator = ":"

	TokenActionConfirm      = "confirm"
	TokenActionCascade      = "cascade"
	TokenActionProgressType = "ptype"
	TokenActionPace         = "pace"

	TokenYes    = "yes"
	TokenNo     = "no"
	TokenCancel = "cancel"
)

// Language model defaults
const (
	DefaultOpenAIModel  = "gpt-4o"
	MaxIntentTextLength = 2000
)

// Admin
const (
	MinAdminPasswordLength = 8
)
