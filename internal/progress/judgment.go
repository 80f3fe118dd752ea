package progress

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
)

// Kind discriminates the variants of a Judgment.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnits
	KindPercent
	KindAbsoluteSet
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindUnits:
		return "units"
	case KindPercent:
		return "percent"
	case KindAbsoluteSet:
		return "absolute_units_set"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Judgment is the normalized interpretation of a free-form progress description.
// A Judgment with KindUnknown carries no value.
type Judgment struct {
	Kind  Kind
	Value int
}

func Unknown() Judgment {
	return Judgment{Kind: KindUnknown}
}

func Units(v int) Judgment       { return Judgment{Kind: KindUnits, Value: v} }
func Percent(v int) Judgment     { return Judgment{Kind: KindPercent, Value: v} }
func AbsoluteSet(v int) Judgment { return Judgment{Kind: KindAbsoluteSet, Value: v} }

// Complete carries no value; the target is always the full scale.
func Complete() Judgment { return Judgment{Kind: KindComplete} }

func (j Judgment) IsUnknown() bool {
	return j.Kind == KindUnknown
}

func kindFromString(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "units":
		return KindUnits
	case "percent":
		return KindPercent
	case "absolute_units_set":
		return KindAbsoluteSet
	case "complete":
		return KindComplete
	default:
		return KindUnknown
	}
}

type rawJudgment struct {
	Type  *string         `json:"type"`
	Kind  *string         `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// ParseJudgment turns a language-model response into a Judgment. Empty, unparseable or
// semantically empty responses all yield Unknown; nothing from a malformed payload is kept.
func ParseJudgment(raw string) Judgment {
	payload, ok := CleanModelJSON(raw)
	if !ok {
		return Unknown()
	}

	var r rawJudgment
	if err := json.Unmarshal(payload, &r); err != nil {
		return Unknown()
	}

	var kindText string
	switch {
	case r.Type != nil:
		kindText = *r.Type
	case r.Kind != nil:
		kindText = *r.Kind
	default:
		return Unknown()
	}

	kind := kindFromString(kindText)
	if kind == KindUnknown {
		return Unknown()
	}

	value, ok := parseValue(r.Value)
	if !ok {
		return Unknown()
	}
	if kind == KindComplete {
		return Complete()
	}
	return Judgment{Kind: kind, Value: value}
}

// parseValue accepts a JSON number or a numeric string and truncates toward zero.
func parseValue(raw json.RawMessage) (int, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// CleanModelJSON strips markdown code fences and standardizes relaxed JSON (trailing commas,
// comments) into strict JSON. It reports false when nothing usable remains.
func CleanModelJSON(raw string) ([]byte, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	standardized, err := hujson.Standardize([]byte(text))
	if err != nil {
		return nil, false
	}
	return standardized, true
}
