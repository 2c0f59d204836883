package projections

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tigeriron/internal/domain/inquiry"
)

type mockExportInquiryStore struct {
	rows []inquiry.Inquiry
	err  error
}

// ListAll returns the seeded inquiries or error.
// POST: Returns the seeded result
func (m *mockExportInquiryStore) ListAll(_ context.Context) ([]inquiry.Inquiry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

// TestQueryExportInquiries_ProducesDatedCSV verifies the filename and that
// every row lands in the document.
func TestQueryExportInquiries_ProducesDatedCSV(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	deps := ExportInquiriesDeps{InquiryStore: &mockExportInquiryStore{rows: []inquiry.Inquiry{
		{Name: "Ann Lee", Email: "ann@example.com", InterestedIn: "trial", Message: "Hi there", CreatedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "Bob Ray", Email: "bob@example.com", InterestedIn: "membership", Message: "Pricing?", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}}

	result, err := QueryExportInquiries(context.Background(), deps, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Filename != "inquiries-2025-06-01.csv" {
		t.Errorf("filename = %q", result.Filename)
	}
	lines := strings.Split(strings.TrimRight(string(result.Data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "Ann Lee") || !strings.Contains(lines[2], "Bob Ray") {
		t.Errorf("rows out of order: %v", lines)
	}
}

// TestQueryExportInquiries_EmptyExportIsValid verifies zero inquiries still
// produce a header-only document.
func TestQueryExportInquiries_EmptyExportIsValid(t *testing.T) {
	deps := ExportInquiriesDeps{InquiryStore: &mockExportInquiryStore{}}
	result, err := QueryExportInquiries(context.Background(), deps, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(result.Data), "Name,Email,Phone") {
		t.Errorf("data = %q", string(result.Data))
	}
}

// TestQueryExportInquiries_StoreFailurePropagates verifies a failed read is
// an error, not an empty download.
func TestQueryExportInquiries_StoreFailurePropagates(t *testing.T) {
	deps := ExportInquiriesDeps{InquiryStore: &mockExportInquiryStore{err: errors.New("backend down")}}
	if _, err := QueryExportInquiries(context.Background(), deps, time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
