package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{Name: "Cash", Category: "asset"}

	got := req.ToUseCaseInput()
	if got.Name != "Cash" || got.Category != "asset" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "short form", in: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", in: "2024-01-15T10:30:00Z", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "empty", in: "  "},
		{name: "garbage", in: "15/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedEntry) {
					t.Fatalf("expected ErrMalformedEntry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecordEntryRequest_Decode(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAmount  string
		expectError bool
	}{
		{
			name:       "string amounts",
			body:       `{"date":"2024-01-15","debit":[{"account":"cash","amount":"12.34","particular":"till"}],"credit":[{"account":"sales","amount":"12.34"}]}`,
			wantAmount: "12.34",
		},
		{
			name:       "numeric amounts",
			body:       `{"date":"2024-01-15","debit":[{"account":"cash","amount":500,"particular":"till"}],"credit":[{"account":"sales","amount":500}]}`,
			wantAmount: "500",
		},
		{
			name:        "invalid debit amount",
			body:        `{"date":"2024-01-15","debit":[{"account":"cash","amount":"twelve"}],"credit":[{"account":"sales","amount":12}]}`,
			expectError: true,
		},
		{
			name:        "empty credit amount",
			body:        `{"date":"2024-01-15","debit":[{"account":"cash","amount":12}],"credit":[{"account":"sales","amount":""}]}`,
			expectError: true,
		},
		{
			name:        "missing amount",
			body:        `{"date":"2024-01-15","debit":[{"account":"cash"}],"credit":[{"account":"sales","amount":12}]}`,
			expectError: true,
		},
		{
			name:        "null amount",
			body:        `{"date":"2024-01-15","debit":[{"account":"cash","amount":null}],"credit":[{"account":"sales","amount":12}]}`,
			expectError: true,
		},
		{
			name:        "invalid date",
			body:        `{"date":"yesterday","debit":[],"credit":[]}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RecordEntryRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			var got usecase.RecordEntryInput
			if err == nil {
				got, err = req.ToUseCaseInput()
			}

			if tt.expectError {
				if !errors.Is(err, domain.ErrMalformedEntry) {
					t.Fatalf("expected ErrMalformedEntry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got.Debit) != 1 || len(got.Credit) != 1 {
				t.Fatalf("unexpected lines: %+v", got)
			}
			if got.Debit[0].AccountID != "cash" || got.Debit[0].Particular != "till" {
				t.Fatalf("unexpected debit line: %+v", got.Debit[0])
			}
			want := decimal.RequireFromString(tt.wantAmount)
			if !got.Debit[0].Amount.Equal(want) || !got.Credit[0].Amount.Equal(want) {
				t.Fatalf("unexpected amounts: %s / %s", got.Debit[0].Amount, got.Credit[0].Amount)
			}
		})
	}
}
