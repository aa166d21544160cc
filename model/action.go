package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind identifies the follow-up action a curator-side button
// triggers.
type ActionKind int

const (
	ActionReply ActionKind = iota
	ActionFullHistory
)

const (
	replyPrefix       = "reply_"
	fullHistoryPrefix = "full_history_"
)

// Action is a decoded callback token. On the wire the tokens use the
// fixed formats "reply_<userID>" and "full_history_<userID>", where
// the suffix is the numeric Telegram ID of the target student.
type Action struct {
	Kind   ActionKind
	UserID int64
}

// Token renders the action in its wire format.
func (a Action) Token() string {
	switch a.Kind {
	case ActionFullHistory:
		return fmt.Sprintf("%s%d", fullHistoryPrefix, a.UserID)
	default:
		return fmt.Sprintf("%s%d", replyPrefix, a.UserID)
	}
}

// ParseAction decodes a callback token. Tokens with an unknown prefix
// or a non-numeric user ID are rejected with ErrMalformedAction.
func ParseAction(token string) (Action, error) {
	var kind ActionKind
	var suffix string
	switch {
	case strings.HasPrefix(token, replyPrefix):
		kind = ActionReply
		suffix = strings.TrimPrefix(token, replyPrefix)
	case strings.HasPrefix(token, fullHistoryPrefix):
		kind = ActionFullHistory
		suffix = strings.TrimPrefix(token, fullHistoryPrefix)
	default:
		return Action{}, ErrMalformedAction
	}

	userID, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return Action{}, ErrMalformedAction
	}
	return Action{Kind: kind, UserID: userID}, nil
}
