package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive datetime", `"2025-02-25T10:30:00"`, time.Date(2025, 2, 25, 10, 30, 0, 0, time.UTC)},
		{"naive with micros", `"2025-02-25T10:30:00.123456"`, time.Date(2025, 2, 25, 10, 30, 0, 123456000, time.UTC)},
		{"rfc3339", `"2025-02-25T10:30:00Z"`, time.Date(2025, 2, 25, 10, 30, 0, 0, time.UTC)},
		{"date only", `"2025-02-25"`, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshal_Invalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if err := json.Unmarshal([]byte(`12`), &ts); err == nil {
		t.Error("expected error for non-string timestamp")
	}
}

func TestTimestampNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("Unmarshal(null) error: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero time, got %v", ts.Time)
	}
	out, _ := json.Marshal(ts)
	if string(out) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", out)
	}
}

func TestTimestampLongDate(t *testing.T) {
	ts, err := ParseTimestamp("2025-02-25T10:00:00")
	if err != nil {
		t.Fatal(err)
	}
	if got := ts.LongDate(); got != "February 25, 2025" {
		t.Errorf("LongDate() = %q, want %q", got, "February 25, 2025")
	}
	if got := ts.ShortDate(); got != "2025-02-25" {
		t.Errorf("ShortDate() = %q, want %q", got, "2025-02-25")
	}
}
