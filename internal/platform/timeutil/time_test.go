package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-01-10", "2024-01-10", false},
		{"2024-01-10T00:00:00.000Z", "2024-01-10", false},
		{"2024-02-29T23:59:59+02:00", "2024-02-29", false},
		{"10/01/2024", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	d := Date("2024-01-10")
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !d.Time().Equal(want) {
		t.Fatalf("expected %v, got %v", want, d.Time())
	}
	if !Date("nope").Time().IsZero() {
		t.Fatal("expected zero time for malformed date")
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2024, 1, 10, 2, 0, 0, 0, loc)
	if got := DateOf(ts); got != "2024-01-10" {
		t.Fatalf("expected 2024-01-10, got %s", got)
	}
}
