package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/progress"
)

var ErrLanguageServiceNotConfigured = errors.New("language service is not configured")

// Intent names returned by the language model
const (
	IntentAddProject     = "add_project"
	IntentAddTask        = "add_task"
	IntentUpdateProgress = "update_progress"
	IntentQueryStatus    = "query_status"
	IntentCompleteItem   = "complete_item"
	IntentPauseReports   = "pause_reports"
	IntentResumeReports  = "resume_reports"
	IntentOther          = "other"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	model  string
}

// IntentEntities are the slots the model extracts from a free-form message.
type IntentEntities struct {
	ItemType            string `json:"item_type"`
	ItemNameHint        string `json:"item_name_hint"`
	ProjectNameHint     string `json:"project_name_hint_for_task"`
	Deadline            string `json:"deadline"`
	ProgressDescription string `json:"progress_description"`
	RawText             string `json:"raw_text"`
}

type Intent struct {
	Name     string         `json:"intent"`
	Entities IntentEntities `json:"entities"`
}

func NewAIService(apiKey, model string) *AIService {
	if model == "" {
		model = constants.DefaultOpenAIModel
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const intentPrompt = `You are an assistant for a project and task tracker.
Extract the user's intent and entities from the message and answer with JSON only.

Possible intents: "add_project", "add_task", "update_progress", "query_status", "complete_item", "pause_reports", "resume_reports", "other".

Entities:
- "item_type": "project" or "task", or null when unclear. For a general "status" or "my stuff" request it must be null.
- "item_name_hint": keywords from the item's name, or null for listings such as "my tasks".
- "project_name_hint_for_task": the project a new task belongs to.
- "deadline": the deadline as written ("tomorrow", "end of week") or YYYY-MM-DD. Keep relative phrases as they are.
- "progress_description": the text describing progress.
- "raw_text": the original message.

Today is %s.

Examples:
"create project market research by end of year" -> {"intent": "add_project", "entities": {"item_name_hint": "market research", "deadline": "end of year", "item_type": "project"}}
"on task AN2 I did the first part of three" -> {"intent": "update_progress", "entities": {"item_name_hint": "AN2", "progress_description": "did the first part of three", "item_type": "task"}}
"status of project Omega?" -> {"intent": "query_status", "entities": {"item_name_hint": "Omega", "item_type": "project"}}
"status" -> {"intent": "query_status", "entities": {"item_name_hint": null, "item_type": null}}
"my tasks" -> {"intent": "query_status", "entities": {"item_name_hint": null, "item_type": "task"}}
"task B5 for project bot test 2, deadline 22" -> {"intent": "add_task", "entities": {"item_name_hint": "B5", "project_name_hint_for_task": "bot test 2", "deadline": "22", "item_type": "task"}}

Message: %q`

const progressPrompt = `Estimate progress from the description below, either in percent of the whole (0-100) or in absolute units.
Answer with JSON only:
- percent: {"type": "percent", "value": <0-100>}
- absolute units added or removed: {"type": "units", "value": <number, negative for a rollback>}
- a new absolute unit count: {"type": "absolute_units_set", "value": <number>}
- finished: {"type": "complete", "value": 100}
- unclear: {"type": "unknown", "value": null}

Hints: "half" is about 50%%, "done" or "finished everything" is complete, "started" is 5-10%%,
"first part of three" is about 33%%, "two thirds" is about 66%%, "minus 2" is -2 units.

Description: %q
Total size for context: %d units.`

// complete sends one prompt and returns the raw text of the first choice.
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrLanguageServiceNotConfigured
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// InterpretIntent classifies a message. Any failure yields nil.
func (s *AIService) InterpretIntent(ctx context.Context, text string, today time.Time) *Intent {
	text = truncateRunes(text, constants.MaxIntentTextLength)

	content, err := s.complete(ctx, fmt.Sprintf(intentPrompt, today.Format("2006-01-02"), text))
	if err != nil {
		log.Printf("Intent interpretation failed: %v", err)
		return nil
	}

	intent, ok := ParseIntent(content)
	if !ok {
		log.Printf("Unparseable intent response: %q", content)
		return nil
	}
	if intent.Entities.RawText == "" {
		intent.Entities.RawText = text
	}
	return intent
}

// truncateRunes cuts text to at most limit characters without splitting a multi-byte rune.
func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

// InterpretProgress turns a description into a judgment. Any failure yields Unknown.
func (s *AIService) InterpretProgress(ctx context.Context, description string, scale int) progress.Judgment {
	content, err := s.complete(ctx, fmt.Sprintf(progressPrompt, description, scale))
	if err != nil {
		log.Printf("Progress interpretation failed: %v", err)
		return progress.Unknown()
	}
	return progress.ParseJudgment(content)
}

// ParseIntent decodes a model response. A response without an intent name is rejected.
func ParseIntent(raw string) (*Intent, bool) {
	payload, ok := progress.CleanModelJSON(raw)
	if !ok {
		return nil, false
	}

	var intent Intent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, false
	}
	intent.Name = strings.ToLower(strings.TrimSpace(intent.Name))
	if intent.Name == "" {
		return nil, false
	}
	intent.Entities.ItemType = strings.ToLower(strings.TrimSpace(intent.Entities.ItemType))
	intent.Entities.ItemNameHint = strings.TrimSpace(intent.Entities.ItemNameHint)
	intent.Entities.ProjectNameHint = strings.TrimSpace(intent.Entities.ProjectNameHint)
	intent.Entities.Deadline = strings.TrimSpace(intent.Entities.Deadline)
	intent.Entities.ProgressDescription = strings.TrimSpace(intent.Entities.ProgressDescription)
	return &intent, true
}
