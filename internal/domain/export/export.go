package export

import (
	"bytes"
	"encoding/csv"
	"time"

	"tigeriron/internal/domain/inquiry"
)

// InquiryHeader is the fixed column order of the inquiry export.
var InquiryHeader = []string{"Name", "Email", "Phone", "Interested In", "Message", "Date"}

// dateLayout renders 2025-01-15 as "1/15/2025".
const dateLayout = "1/2/2006"

// InquiriesCSV serializes inquiries to CSV with a header row and the fixed
// column order Name, Email, Phone, Interested In, Message, Date. Fields
// containing delimiters, quotes or newlines are escaped per RFC 4180 by
// encoding/csv.
// PRE: rows are in the order they should appear (caller sorts newest first)
// POST: Returns the full CSV document including the header row
func InquiriesCSV(rows []inquiry.Inquiry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(InquiryHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Email,
			row.Phone,
			row.InterestedIn,
			row.Message,
			row.CreatedAt.Format(dateLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the dated attachment name for an export generated now.
func Filename(now time.Time) string {
	return "inquiries-" + now.Format("2006-01-02") + ".csv"
}
