package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"tigeriron/internal/adapters/email"
	inquiryDomain "tigeriron/internal/domain/inquiry"
)

// InquiryStoreForSubmit defines the inquiry store interface needed by SubmitInquiry.
type InquiryStoreForSubmit interface {
	Insert(ctx context.Context, value inquiryDomain.Inquiry) error
}

// SubmitInquiryInput carries the contact form fields.
type SubmitInquiryInput struct {
	Name         string
	Email        string
	Phone        string
	Message      string
	InterestedIn string
	Source       string // referrer header, or empty
}

// SubmitInquiryDeps holds dependencies for SubmitInquiry.
type SubmitInquiryDeps struct {
	InquiryStore InquiryStoreForSubmit
	Sender       email.Sender // nil disables staff notification
	NotifyTo     string
	NotifyFrom   string
}

// ExecuteSubmitInquiry validates and stores a contact-form submission, then
// notifies staff by email on a best-effort basis.
// PRE: input fields come straight from the form
// POST: Inquiry row exists; notification failures are logged and swallowed
func ExecuteSubmitInquiry(ctx context.Context, input SubmitInquiryInput, deps SubmitInquiryDeps) error {
	source := input.Source
	if source == "" {
		source = "direct"
	}
	inq := inquiryDomain.Inquiry{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Message:      input.Message,
		InterestedIn: input.InterestedIn,
		Source:       source,
	}
	if err := inq.Validate(); err != nil {
		return err
	}

	if err := deps.InquiryStore.Insert(ctx, inq); err != nil {
		slog.Error("inquiry_event", "event", "insert_failed", "error", err)
		return err
	}
	slog.Info("inquiry_event", "event", "inquiry_created", "interest", inq.InterestedIn, "source", inq.Source)

	if deps.Sender != nil && deps.NotifyTo != "" {
		body := fmt.Sprintf(
			"<p><strong>%s</strong> (%s) is interested in %s:</p><p>%s</p>",
			html.EscapeString(inq.Name),
			html.EscapeString(inq.Email),
			html.EscapeString(inq.InterestedIn),
			html.EscapeString(inq.Message),
		)
		_, err := deps.Sender.Send(ctx, email.SendRequest{
			To:      []string{deps.NotifyTo},
			From:    deps.NotifyFrom,
			Subject: "New inquiry from " + inq.Name,
			HTML:    body,
			ReplyTo: inq.Email,
		})
		if err != nil {
			slog.Warn("inquiry_event", "event", "notify_failed", "error", err)
		}
	}

	return nil
}
