package inquiry_test

import (
	"strings"
	"testing"

	"tigeriron/internal/domain/inquiry"
)

// TestInquiryValidation tests validation of Inquiry.
func TestInquiryValidation(t *testing.T) {
	valid := inquiry.Inquiry{
		Name:         "Ann Lee",
		Email:        "ann@example.com",
		Message:      "Hi there",
		InterestedIn: inquiry.InterestTrial,
	}

	tests := []struct {
		name    string
		mutate  func(i *inquiry.Inquiry)
		wantErr bool
	}{
		{name: "valid inquiry", mutate: func(i *inquiry.Inquiry) {}, wantErr: false},
		{name: "optional phone and source", mutate: func(i *inquiry.Inquiry) {
			i.Phone = "021 555 0100"
			i.Source = "https://google.com"
		}, wantErr: false},
		{name: "empty name", mutate: func(i *inquiry.Inquiry) { i.Name = "" }, wantErr: true},
		{name: "whitespace name", mutate: func(i *inquiry.Inquiry) { i.Name = "  " }, wantErr: true},
		{name: "name too long", mutate: func(i *inquiry.Inquiry) {
			i.Name = strings.Repeat("a", inquiry.MaxNameLength+1)
		}, wantErr: true},
		{name: "invalid email", mutate: func(i *inquiry.Inquiry) { i.Email = "not-an-email" }, wantErr: true},
		{name: "empty message", mutate: func(i *inquiry.Inquiry) { i.Message = "" }, wantErr: true},
		{name: "message too long", mutate: func(i *inquiry.Inquiry) {
			i.Message = strings.Repeat("a", inquiry.MaxMessageLength+1)
		}, wantErr: true},
		{name: "missing interest", mutate: func(i *inquiry.Inquiry) { i.InterestedIn = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inq := valid
			tt.mutate(&inq)
			err := inq.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
