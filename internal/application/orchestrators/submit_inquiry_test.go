package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tigeriron/internal/adapters/email"
	inquiryDomain "tigeriron/internal/domain/inquiry"
)

type mockInquiryStore struct {
	inserted  []inquiryDomain.Inquiry
	insertErr error
}

// Insert records the inquiry or returns the seeded error.
// PRE: entity has been validated
// POST: Entity is recorded
func (m *mockInquiryStore) Insert(_ context.Context, inq inquiryDomain.Inquiry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, inq)
	return nil
}

type mockEmailSender struct {
	sent []email.SendRequest
	err  error
}

// Send records the request or returns the seeded error.
// PRE: req has recipients
// POST: Request is recorded
func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1"}, nil
}

func validInquiryInput() SubmitInquiryInput {
	return SubmitInquiryInput{
		Name:         "Ann Lee",
		Email:        "ann@example.com",
		Message:      "Hi there",
		InterestedIn: inquiryDomain.InterestTrial,
	}
}

// TestExecuteSubmitInquiry_DefaultsSourceToDirect verifies an absent referrer
// is stored as "direct".
func TestExecuteSubmitInquiry_DefaultsSourceToDirect(t *testing.T) {
	store := &mockInquiryStore{}
	if err := ExecuteSubmitInquiry(context.Background(), validInquiryInput(), SubmitInquiryDeps{InquiryStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(store.inserted))
	}
	if store.inserted[0].Source != "direct" {
		t.Errorf("source = %q, want direct", store.inserted[0].Source)
	}
}

// TestExecuteSubmitInquiry_KeepsReferrerSource verifies a provided referrer
// is stored as-is.
func TestExecuteSubmitInquiry_KeepsReferrerSource(t *testing.T) {
	store := &mockInquiryStore{}
	input := validInquiryInput()
	input.Source = "https://google.com/search"

	if err := ExecuteSubmitInquiry(context.Background(), input, SubmitInquiryDeps{InquiryStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.inserted[0].Source != "https://google.com/search" {
		t.Errorf("source = %q", store.inserted[0].Source)
	}
}

// TestExecuteSubmitInquiry_ValidationBlocksInsert verifies invalid input
// writes nothing.
func TestExecuteSubmitInquiry_ValidationBlocksInsert(t *testing.T) {
	store := &mockInquiryStore{}
	input := validInquiryInput()
	input.Email = "not-an-email"

	if err := ExecuteSubmitInquiry(context.Background(), input, SubmitInquiryDeps{InquiryStore: store}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted = %d, want 0", len(store.inserted))
	}
}

// TestExecuteSubmitInquiry_NotifiesStaff verifies the notification email's
// addressing and that the inquirer can be replied to directly.
func TestExecuteSubmitInquiry_NotifiesStaff(t *testing.T) {
	store := &mockInquiryStore{}
	sender := &mockEmailSender{}
	deps := SubmitInquiryDeps{
		InquiryStore: store,
		Sender:       sender,
		NotifyTo:     "staff@tigerironfitness.com",
		NotifyFrom:   "Tiger Iron <noreply@tigerironfitness.com>",
	}

	if err := ExecuteSubmitInquiry(context.Background(), validInquiryInput(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	req := sender.sent[0]
	if len(req.To) != 1 || req.To[0] != "staff@tigerironfitness.com" {
		t.Errorf("to = %v", req.To)
	}
	if req.ReplyTo != "ann@example.com" {
		t.Errorf("reply-to = %q", req.ReplyTo)
	}
	if !strings.Contains(req.HTML, "Ann Lee") {
		t.Errorf("body missing inquirer name: %q", req.HTML)
	}
}

// TestExecuteSubmitInquiry_NotifyFailureIsSwallowed verifies a broken sender
// never fails the submission.
func TestExecuteSubmitInquiry_NotifyFailureIsSwallowed(t *testing.T) {
	store := &mockInquiryStore{}
	sender := &mockEmailSender{err: errors.New("provider down")}
	deps := SubmitInquiryDeps{
		InquiryStore: store,
		Sender:       sender,
		NotifyTo:     "staff@tigerironfitness.com",
	}

	if err := ExecuteSubmitInquiry(context.Background(), validInquiryInput(), deps); err != nil {
		t.Fatalf("notification failure must not surface: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Errorf("inserted = %d, want 1", len(store.inserted))
	}
}

// TestExecuteSubmitInquiry_EscapesHTMLInNotification verifies user input is
// escaped before it lands in the HTML body.
func TestExecuteSubmitInquiry_EscapesHTMLInNotification(t *testing.T) {
	sender := &mockEmailSender{}
	input := validInquiryInput()
	input.Message = `<script>alert("hi")</script>`
	deps := SubmitInquiryDeps{
		InquiryStore: &mockInquiryStore{},
		Sender:       sender,
		NotifyTo:     "staff@tigerironfitness.com",
	}

	if err := ExecuteSubmitInquiry(context.Background(), input, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sender.sent[0].HTML, "<script>") {
		t.Errorf("body not escaped: %q", sender.sent[0].HTML)
	}
}
