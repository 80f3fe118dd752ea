package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/tokens"
	"github.com/yukikurage/progress-bot/internal/utils"
)

const (
	msgSomethingWrong     = "Something went wrong, please try again later."
	msgDidNotUnderstand   = "Sorry, I didn't understand that. Try /help."
	msgNoPending          = "There is nothing to confirm right now."
	msgStaleConfirmation  = "This confirmation is outdated. Please use the latest one."
	msgUpdateCancelled    = "Update cancelled."
	msgTargetVanished     = "This item no longer exists."
	msgDescribeProgress   = "Describe your progress (e.g. \"+3\", \"50%\", \"read 10 pages\", \"done\")."
	msgUnclearProgress    = "I couldn't work out the change from that. Please describe it differently, e.g. \"+3\" or \"40%\"."
	msgPickItemType       = "Please choose project or task with the buttons below, or /cancel."
	msgDeadlinePrompt     = "Deadline? (e.g. 2025-12-31, 'in 2 weeks', 'friday', or /skip)"
	msgDeadlineUnparsable = "I couldn't understand that date. Try 2025-12-31, 'in 2 weeks', 'friday', or /skip."
)

func kindLabel(kind models.EntityKind) string {
	if kind == models.KindProject {
		return "Project"
	}
	return "Task"
}

func itemTypeButtons() []dto.Button {
	return []dto.Button{
		{Label: "Project", Token: tokens.ProgressType(string(models.KindProject))},
		{Label: "Task", Token: tokens.ProgressType(string(models.KindTask))},
		{Label: "Cancel", Token: tokens.ProgressType(constants.TokenCancel)},
	}
}

func confirmButtons(proposalID string) []dto.Button {
	return []dto.Button{
		{Label: "Yes", Token: tokens.Confirm(true, proposalID)},
		{Label: "No", Token: tokens.Confirm(false, proposalID)},
	}
}

func cascadeButtons(offer models.CascadeOffer) []dto.Button {
	return []dto.Button{
		{Label: fmt.Sprintf("Yes (+%d)", offer.Increment), Token: tokens.Cascade(true, offer.ProjectID, offer.Increment)},
		{Label: "No, thanks", Token: tokens.Cascade(false, offer.ProjectID, 0)},
	}
}

// confirmationText describes a staged change in the words the accept button will apply.
func confirmationText(p *models.PendingConfirmation) string {
	if p.ActionType == models.ActionComplete {
		return fmt.Sprintf("Complete %s '%s'? (Progress will be set to %d/%d)",
			strings.ToLower(kindLabel(p.ItemType)), p.ItemName, p.NewCurrentUnits, p.TotalUnits)
	}
	if p.TotalUnits > 0 {
		return fmt.Sprintf("Update progress for '%s' from %d to %d (of %d)?",
			p.ItemName, p.OldCurrentUnits, p.NewCurrentUnits, p.TotalUnits)
	}
	return fmt.Sprintf("Update progress for '%s' from %d to %d?", p.ItemName, p.OldCurrentUnits, p.NewCurrentUnits)
}

func formatDeadline(d *time.Time) string {
	if d == nil {
		return "none"
	}
	return d.Format("2006-01-02")
}

// statusText is the single-item answer to a status query.
func statusText(e models.Entity, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s '%s' (%s)\n", kindLabel(e.Kind), e.Name, e.ID)
	fmt.Fprintf(&b, "Status: %s\n", e.Status)
	fmt.Fprintf(&b, "Progress: %s\n", services.FormatProgress(e))
	fmt.Fprintf(&b, "Deadline: %s%s", formatDeadline(e.Deadline), services.DaysLeftSuffix(e, now))
	if pace, ok := utils.ComputePace(e.CreatedAt, e.Deadline, now, e.CurrentUnits, e.TotalUnits); ok && pace.Forecast != "" {
		fmt.Fprintf(&b, "\nForecast: %s", pace.Forecast)
	}
	return b.String()
}

func paceText(e models.Entity, pace utils.Pace) string {
	text := fmt.Sprintf("Pace for '%s':\nRequired: %s\nActual: %s", e.Name, pace.Required, pace.Actual)
	if pace.Forecast != "" {
		text += "\n" + pace.Forecast
	}
	return text
}

func listText(title string, entities []models.Entity, now time.Time) string {
	if len(entities) == 0 {
		return fmt.Sprintf("%s: none.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", title)
	for _, e := range entities {
		fmt.Fprintf(&b, "\n- %s: %s%s", e.Name, services.FormatProgress(e), services.DaysLeftSuffix(e, now))
	}
	return b.String()
}
