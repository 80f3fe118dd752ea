package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/utils"
)

const defaultSenderTimeout = 10 * time.Second

// Sender delivers an outbound chat message.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// HTTPSender posts messages as JSON to the chat transport.
type HTTPSender struct {
	url    string
	secret string
	client *http.Client
}

func NewHTTPSender(url, secret string) *HTTPSender {
	return &HTTPSender{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: defaultSenderTimeout},
	}
}

type outboundMessage struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

func (s *HTTPSender) Send(ctx context.Context, userID, text string) error {
	data, err := json.Marshal(outboundMessage{UserID: userID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set(constants.WebhookSecretHeader, s.secret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat transport returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender only logs, for deployments without an outbound transport.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, userID, text string) error {
	log.Printf("Report for %s:\n%s", userID, text)
	return nil
}

// ReportMessage is one user's daily report.
type ReportMessage struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Text   string `json:"text" yaml:"text"`
}

// ReportService builds the daily report. It never mutates the store.
type ReportService struct {
	store  *Store
	sender Sender
}

func NewReportService(store *Store, sender Sender) *ReportService {
	if sender == nil {
		sender = LogSender{}
	}
	return &ReportService{
		store:  store,
		sender: sender,
	}
}

// Daily builds one message per user with reports enabled, in store order.
func (s *ReportService) Daily(ctx context.Context, now time.Time) ([]ReportMessage, error) {
	var messages []ReportMessage
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, user := range doc.Users {
			if !user.ReceiveReports {
				continue
			}
			messages = append(messages, ReportMessage{
				UserID: user.ID,
				Text:   buildReport(doc, user, now),
			})
		}
		return nil
	})
	return messages, err
}

// SendDaily builds and delivers the daily report. Delivery failures are logged per user.
func (s *ReportService) SendDaily(ctx context.Context, now time.Time) (int, error) {
	messages, err := s.Daily(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range messages {
		if err := s.sender.Send(ctx, m.UserID, m.Text); err != nil {
			log.Printf("Failed to send report to %s: %v", m.UserID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func buildReport(doc *models.Document, user models.User, now time.Time) string {
	var own, public []models.Entity
	for _, kind := range []models.EntityKind{models.KindProject, models.KindTask} {
		for _, e := range doc.Pool(kind) {
			if e.IsCompleted() {
				continue
			}
			switch {
			case e.OwnerID == user.ID:
				own = append(own, e)
			case kind == models.KindProject && e.IsPublic:
				public = append(public, e)
			}
		}
	}
	SortByDeadline(own)
	SortByDeadline(public)

	var b strings.Builder
	fmt.Fprintf(&b, "Daily report for %s (%s)\n", user.Username, now.Format("2006-01-02"))
	if len(own) == 0 {
		b.WriteString("You have no active projects or tasks.\n")
	}
	for _, e := range own {
		fmt.Fprintf(&b, "- %s %s: %s%s\n", e.Kind, e.Name, FormatProgress(e), DaysLeftSuffix(e, now))
	}
	if len(public) > 0 {
		b.WriteString("\nPublic projects:\n")
		for _, e := range public {
			fmt.Fprintf(&b, "- %s: %s%s\n", e.Name, FormatProgress(e), DaysLeftSuffix(e, now))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProgress renders current/total with a percentage, or bare units without a total.
func FormatProgress(e models.Entity) string {
	if e.TotalUnits > 0 {
		percent := e.CurrentUnits * 100 / e.TotalUnits
		return fmt.Sprintf("%d/%d (%d%%)", e.CurrentUnits, e.TotalUnits, percent)
	}
	if e.CurrentUnits > 0 {
		return fmt.Sprintf("%d units", e.CurrentUnits)
	}
	return "not tracked"
}

// DaysLeftSuffix describes the time to the deadline for active entities.
func DaysLeftSuffix(e models.Entity, now time.Time) string {
	if e.Deadline == nil || e.IsCompleted() {
		return ""
	}
	days := utils.DaysBetween(now, *e.Deadline)
	switch {
	case days < 0:
		return fmt.Sprintf(", overdue by %d days", -days)
	case days == 0:
		return ", due today"
	default:
		return fmt.Sprintf(", %d days left", days)
	}
}
