package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-03-15", "2024-02-29", "1999-12-31"}
	invalid := []string{"2023-02-29", "2024-13-01", "15-03-2024", "2024/03/15", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"09:00:00", "17:30:15", "00:00:00", "23:59:59"}
	invalid := []string{"9:00", "24:00:00", "17:61:00", "noon", ""}
	for _, c := range valid {
		if _, ok := IsValidClockTime(c); !ok {
			t.Errorf("IsValidClockTime(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if _, ok := IsValidClockTime(c); ok {
			t.Errorf("IsValidClockTime(%q) = true, want false", c)
		}
	}
}

func TestIsHexColor(t *testing.T) {
	valid := []string{"#6366f1", "#EC4899", "#000000"}
	invalid := []string{"6366f1", "#fff", "#6366f1ff", "#ggggggg", ""}
	for _, c := range valid {
		if !IsHexColor(c) {
			t.Errorf("IsHexColor(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if IsHexColor(c) {
			t.Errorf("IsHexColor(%q) = true, want false", c)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "from_date", Message: "from_date is required"},
		{Field: "reason", Message: "reason is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	if m["reason"] != "reason is required" {
		t.Errorf("unexpected message for reason: %q", m["reason"])
	}
	if errs.Error() != "from_date: from_date is required; reason: reason is required" {
		t.Errorf("unexpected error string: %q", errs.Error())
	}
}
