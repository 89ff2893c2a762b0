package schedule

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in        string
		want      Day
		wantErr   bool
		wantValid bool
	}{
		{in: "Monday", want: Monday, wantValid: true},
		{in: " friday ", want: Friday, wantValid: true},
		{in: "SATURDAY", want: Saturday, wantValid: true},
		{in: "sunday", want: Sunday},
		{in: "Mon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDay() = %q, want %q", got, tt.want)
			}
			if got.IsValid() != tt.wantValid {
				t.Errorf("Day(%q).IsValid() = %v, want %v", got, got.IsValid(), tt.wantValid)
			}
		})
	}
}

func TestDayOf(t *testing.T) {
	// 2026-10-12 is a Monday
	monday := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	for i, want := range append(Days, Sunday) {
		if got := DayOf(monday.AddDate(0, 0, i)); got != want {
			t.Errorf("DayOf(+%d days) = %s, want %s", i, got, want)
		}
	}
}
