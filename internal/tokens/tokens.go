package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/models"
)

var ErrMalformedToken = errors.New("malformed button token")

// Token is a parsed button payload.
type Token struct {
	Action string
	Args   []string
}

// arity is the exact field count, action included, expected per action.
var arity = map[string]int{
	constants.TokenActionConfirm:      3,
	constants.TokenActionCascade:      4,
	constants.TokenActionProgressType: 2,
	constants.TokenActionPace:         2,
}

func join(fields ...string) string {
	return strings.Join(fields, constants.TokenSeparator)
}

func answer(accept bool) string {
	if accept {
		return constants.TokenYes
	}
	return constants.TokenNo
}

// Confirm encodes an accept/reject answer for the proposal with the given id.
func Confirm(accept bool, proposalID string) string {
	return join(constants.TokenActionConfirm, answer(accept), proposalID)
}

// Cascade encodes everything a parent-project offer needs so it survives without session state.
func Cascade(accept bool, projectID string, increment int) string {
	if !accept {
		increment = 0
	}
	return join(constants.TokenActionCascade, answer(accept), projectID, strconv.Itoa(increment))
}

// ProgressType encodes the item-type choice of the progress dialog ("project", "task" or "cancel").
func ProgressType(choice string) string {
	return join(constants.TokenActionProgressType, choice)
}

func Pace(itemID string) string {
	return join(constants.TokenActionPace, itemID)
}

// Parse validates the structure of a raw token: a known action, the exact field count for
// that action and no empty fields.
func Parse(raw string) (Token, error) {
	fields := strings.Split(strings.TrimSpace(raw), constants.TokenSeparator)
	want, ok := arity[fields[0]]
	if !ok {
		return Token{}, fmt.Errorf("%w: unknown action %q", ErrMalformedToken, fields[0])
	}
	if len(fields) != want {
		return Token{}, fmt.Errorf("%w: %q has %d fields, want %d", ErrMalformedToken, raw, len(fields), want)
	}
	for _, f := range fields[1:] {
		if f == "" {
			return Token{}, fmt.Errorf("%w: %q has an empty field", ErrMalformedToken, raw)
		}
	}
	return Token{Action: fields[0], Args: fields[1:]}, nil
}

func parseAnswer(s string) (bool, error) {
	switch s {
	case constants.TokenYes:
		return true, nil
	case constants.TokenNo:
		return false, nil
	default:
		return false, fmt.Errorf("%w: answer %q", ErrMalformedToken, s)
	}
}

// ConfirmAnswer decodes a confirm token.
func (t Token) ConfirmAnswer() (accept bool, proposalID string, err error) {
	if t.Action != constants.TokenActionConfirm {
		return false, "", fmt.Errorf("%w: not a confirm token", ErrMalformedToken)
	}
	accept, err = parseAnswer(t.Args[0])
	if err != nil {
		return false, "", err
	}
	return accept, t.Args[1], nil
}

// CascadeAnswer decodes a cascade token into the offer it carries.
func (t Token) CascadeAnswer() (accept bool, offer models.CascadeOffer, err error) {
	if t.Action != constants.TokenActionCascade {
		return false, offer, fmt.Errorf("%w: not a cascade token", ErrMalformedToken)
	}
	accept, err = parseAnswer(t.Args[0])
	if err != nil {
		return false, offer, err
	}
	increment, err := strconv.Atoi(t.Args[2])
	if err != nil || increment < 0 {
		return false, offer, fmt.Errorf("%w: increment %q", ErrMalformedToken, t.Args[2])
	}
	return accept, models.CascadeOffer{ProjectID: t.Args[1], Increment: increment}, nil
}

// ProgressTypeChoice decodes the progress dialog's item type choice.
func (t Token) ProgressTypeChoice() (string, error) {
	if t.Action != constants.TokenActionProgressType {
		return "", fmt.Errorf("%w: not a progress type token", ErrMalformedToken)
	}
	switch choice := t.Args[0]; choice {
	case string(models.KindProject), string(models.KindTask), constants.TokenCancel:
		return choice, nil
	default:
		return "", fmt.Errorf("%w: progress type %q", ErrMalformedToken, choice)
	}
}

func (t Token) PaceItemID() (string, error) {
	if t.Action != constants.TokenActionPace {
		return "", fmt.Errorf("%w: not a pace token", ErrMalformedToken)
	}
	return t.Args[0], nil
}
