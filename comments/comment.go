// Package comments stores and serves the discussion threads attached to
// posts, and aggregates them for rendering.
package comments

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Content length bounds. Drafts submitted through the site are held to the
// tighter authoring bound; the store enforces the storage bound on trimmed
// content.
const (
	MinDraftLen  = 10
	MaxDraftLen  = 200
	MaxStoredLen = 1024
)

var (
	// ErrLoginRequired is returned when an anonymous viewer tries to comment.
	ErrLoginRequired = errors.New("comments: please login before commenting")

	// ErrTransport marks a failed call to the comment service.
	ErrTransport = errors.New("comments: comment service unavailable")
)

// User is the public profile of a commenter.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// Comment is one immutable entry of a post's thread. Post holds the post
// slug.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Post      string    `json:"post"`
	AuthorID  string    `json:"authorId"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment is the payload of a create request.
type NewComment struct {
	Content string `json:"content"`
	Post    string `json:"post"`
	UserID  string `json:"userId"`
}

// FieldError is a validation failure of one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "comments: invalid input: " + strings.Join(msgs, "; ")
}

// Message returns the message for field, or "" when the field is valid.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// ValidateDraft checks content against the authoring bound. Length is
// counted in characters before trimming.
func ValidateDraft(content string) error {
	var fe fieldErrors
	switch n := utf8.RuneCountInString(content); {
	case n < MinDraftLen:
		fe.add("content", "Comments must be at least 10 characters.")
	case n > MaxDraftLen:
		fe.add("content", "Comments must not be longer than 200 characters.")
	}
	return fe.err()
}

// ValidateNew checks a create request against the storage bound.
func ValidateNew(n NewComment) error {
	var fe fieldErrors
	switch l := utf8.RuneCountInString(strings.TrimSpace(n.Content)); {
	case l == 0:
		fe.add("content", "Required")
	case l > MaxStoredLen:
		fe.add("content", "Comments must not be longer than 1024 characters.")
	}
	if strings.TrimSpace(n.Post) == "" {
		fe.add("post", "Required")
	}
	if strings.TrimSpace(n.UserID) == "" {
		fe.add("userId", "Required")
	}
	return fe.err()
}
