package projections

import (
	"context"
	"log/slog"
	"time"

	"tigeriron/internal/domain/export"
	"tigeriron/internal/domain/inquiry"
)

// ExportInquiryStore defines the inquiry store interface needed by the export projection.
type ExportInquiryStore interface {
	ListAll(ctx context.Context) ([]inquiry.Inquiry, error)
}

// ExportInquiriesDeps holds dependencies for the inquiry export projection.
type ExportInquiriesDeps struct {
	InquiryStore ExportInquiryStore
}

// ExportResult carries a ready-to-download CSV document.
type ExportResult struct {
	Filename string
	Data     []byte
}

// QueryExportInquiries renders every inquiry as a CSV download named for
// the current date.
// POST: Data always starts with the header row, even with zero inquiries
func QueryExportInquiries(ctx context.Context, deps ExportInquiriesDeps, now time.Time) (ExportResult, error) {
	rows, err := deps.InquiryStore.ListAll(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	data, err := export.InquiriesCSV(rows)
	if err != nil {
		return ExportResult{}, err
	}
	slog.Info("admin_event", "event", "inquiries_exported", "count", len(rows))
	return ExportResult{
		Filename: export.Filename(now),
		Data:     data,
	}, nil
}
