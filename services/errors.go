package services

import (
	"errors"
	"fmt"
	"strings"
)

// Expected, recoverable failures. Handlers map these to 4xx responses; any
// other error is an infrastructure failure and propagates unmodified.
var (
	ErrSelfMessaging        = errors.New("cannot start a conversation with yourself")
	ErrEmptyContent         = errors.New("message content is empty")
	ErrNotAParticipant      = errors.New("sender is not a participant of this conversation")
	ErrConversationNotFound = errors.New("conversation not found")
)

// RecipientNotFoundError reports a recipient that did not resolve. When the
// lookup was by handle, Suggestions carries up to a handful of near matches.
type RecipientNotFoundError struct {
	Recipient   string
	Suggestions []string
}

func (e *RecipientNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("no user found for %q, did you mean: %s", e.Recipient, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("no user found for %q", e.Recipient)
}
