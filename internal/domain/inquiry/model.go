package inquiry

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxMessageLength = 5000
)

// Interest category constants offered by the contact form.
const (
	InterestTrial      = "trial"
	InterestMembership = "membership"
	InterestTraining   = "personal-training"
	InterestClasses    = "group-classes"
	InterestOther      = "other"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrEmptyMessage = errors.New("message is required")
	ErrEmptyInterest = errors.New("please choose what you are interested in")
)

// Inquiry is a contact-form submission. Immutable once created; read and
// exported by the admin view only.
type Inquiry struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Message      string
	InterestedIn string
	Source       string // referrer, or "direct"
	CreatedAt    time.Time
}

// Validate checks if the Inquiry has valid data.
// PRE: Inquiry struct is populated from form input
// POST: Returns nil if valid, error otherwise
// INVARIANT: Name, Email, Message and InterestedIn are required; Phone and Source are optional
func (i *Inquiry) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if len(i.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(i.Message) == "" {
		return ErrEmptyMessage
	}
	if len(i.Message) > MaxMessageLength {
		return errors.New("message cannot exceed 5000 characters")
	}
	if strings.TrimSpace(i.InterestedIn) == "" {
		return ErrEmptyInterest
	}
	return nil
}
