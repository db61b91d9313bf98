package combat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooFewActions is returned when a submission holds fewer than two valid
// moves.
var ErrTooFewActions = errors.New("you must specify two actions - Attack and Protect")

// ParseErrorKind classifies a rejected token.
type ParseErrorKind uint8

const (
	WrongAction ParseErrorKind = iota
	WrongPart
)

func (k ParseErrorKind) String() string {
	if k == WrongAction {
		return "wrong action"
	}
	return "wrong part"
}

// ParseError describes one rejected token. Name is the offending side of the
// token: the action name for WrongAction, the part name for WrongPart.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
	Name  string
}

func (e ParseError) Error() string {
	if e.Kind == WrongAction {
		return fmt.Sprintf("action %q doesn't exist in the game", e.Name)
	}
	return fmt.Sprintf("part %q doesn't exist in the game", e.Name)
}

// WrongActionsError collects every rejected token of a submission.
type WrongActionsError struct {
	Errors []ParseError
}

func (e *WrongActionsError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		msgs[i] = pe.Error()
	}
	return "wrong actions: " + strings.Join(msgs, "; ")
}

// Parse turns a whitespace separated list of "<Action>:<Part>" tokens into
// move intents, keeping submission order. All invalid tokens are reported
// together.
func Parse(submission string) ([]MoveIntent, error) {
	tokens := strings.Fields(submission)
	moves := make([]MoveIntent, 0, len(tokens))
	var bad []ParseError

	for _, tok := range tokens {
		actionName, partName, _ := strings.Cut(tok, ":")

		action, ok := ParseActionType(actionName)
		if !ok {
			bad = append(bad, ParseError{Kind: WrongAction, Token: tok, Name: actionName})
			continue
		}
		part, ok := ParseBodyPart(partName)
		if !ok {
			bad = append(bad, ParseError{Kind: WrongPart, Token: tok, Name: partName})
			continue
		}
		moves = append(moves, MoveIntent{Action: action, Part: part})
	}

	if len(bad) > 0 {
		return nil, &WrongActionsError{Errors: bad}
	}
	if len(moves) < 2 {
		return nil, ErrTooFewActions
	}
	return moves, nil
}
