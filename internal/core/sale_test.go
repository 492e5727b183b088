package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSourceDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantISO string
		wantErr bool
	}{
		{name: "valid date", input: "05/12/2024", wantISO: "2024-05-12"},
		{name: "single digit padded", input: "01/02/2024", wantISO: "2024-01-02"},
		{name: "iso format rejected", input: "2024-05-12", wantErr: true},
		{name: "day month swapped out of range", input: "13/32/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseSourceDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSourceDate(%q) expected error, got %v", tt.input, d)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("error %v is not ErrInvalidDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSourceDate(%q) unexpected error: %v", tt.input, err)
			}
			if got := d.ISO(); got != tt.wantISO {
				t.Errorf("ISO() = %q, want %q", got, tt.wantISO)
			}
		})
	}
}

func TestDateRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   Date
		end     Date
		wantErr error
	}{
		{name: "start before end", start: NewDate(2024, 5, 1), end: NewDate(2024, 5, 5)},
		{name: "equal dates allowed", start: NewDate(2024, 5, 1), end: NewDate(2024, 5, 1)},
		{name: "inverted range", start: NewDate(2024, 5, 5), end: NewDate(2024, 5, 1), wantErr: ErrInvertedRange},
		{name: "zero start", end: NewDate(2024, 5, 1), wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DateRange{Start: tt.start, End: tt.end}.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 4, 1)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-04-01"` {
		t.Fatalf("marshal = %s, want %q", b, "2024-04-01")
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}

func TestRevenueSummaryNullSerialization(t *testing.T) {
	b, err := json.Marshal(RevenueSummary{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"total_revenue_sgd":null,"average_order_value_sgd":null}`
	if string(b) != want {
		t.Errorf("marshal = %s, want %s", b, want)
	}
}
