package models

type ActionType string

const (
	ActionUpdate   ActionType = "update"
	ActionComplete ActionType = "complete"
)

// PendingConfirmation is a staged progress mutation awaiting an explicit accept or reject.
// ProposalID ties the confirmation buttons to this exact proposal.
type PendingConfirmation struct {
	ProposalID      string
	ItemID          string
	ItemName        string
	ItemType        EntityKind
	TotalUnits      int
	NewCurrentUnits int
	OldCurrentUnits int
	ActionType      ActionType
}

// CascadeOffer proposes adding Increment units to a parent project after one of its tasks completes.
type CascadeOffer struct {
	ProjectID   string
	ProjectName string
	TaskName    string
	Increment   int
}
