package export_test

import (
	"strings"
	"testing"
	"time"

	"tigeriron/internal/domain/export"
	"tigeriron/internal/domain/inquiry"
)

// TestInquiriesCSV_GoldenRow verifies the exact serialization of a plain row.
func TestInquiriesCSV_GoldenRow(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	rows := []inquiry.Inquiry{
		{
			Name:         "Ann Lee",
			Email:        "ann@example.com",
			InterestedIn: "trial",
			Message:      "Hi there",
			CreatedAt:    created,
		},
	}

	data, err := export.InquiriesCSV(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), string(data))
	}
	if lines[0] != "Name,Email,Phone,Interested In,Message,Date" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Ann Lee,ann@example.com,,trial,Hi there,1/15/2025" {
		t.Errorf("row = %q", lines[1])
	}
}

// TestInquiriesCSV_EscapesDelimitersAndQuotes verifies fields containing
// commas, quotes and newlines survive a round trip intact.
func TestInquiriesCSV_EscapesDelimitersAndQuotes(t *testing.T) {
	rows := []inquiry.Inquiry{
		{
			Name:         `O"Brien, Pat`,
			Email:        "pat@example.com",
			InterestedIn: "membership",
			Message:      "Line one\nLine two, with comma",
			CreatedAt:    time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := export.InquiriesCSV(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"O""Brien, Pat"`) {
		t.Errorf("name not escaped: %q", out)
	}
	if !strings.Contains(out, "\"Line one\nLine two, with comma\"") {
		t.Errorf("message not escaped: %q", out)
	}
}

// TestInquiriesCSV_EmptyStillHasHeader verifies a zero-row export is a valid
// document with only the header.
func TestInquiriesCSV_EmptyStillHasHeader(t *testing.T) {
	data, err := export.InquiriesCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "Name,Email,Phone,Interested In,Message,Date\n" {
		t.Errorf("empty export = %q", string(data))
	}
}

// TestFilename verifies the dated attachment name.
func TestFilename(t *testing.T) {
	now := time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC)
	if got := export.Filename(now); got != "inquiries-2025-01-05.csv" {
		t.Errorf("Filename = %q", got)
	}
}
