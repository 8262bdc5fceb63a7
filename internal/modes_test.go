package internal

import "testing"

func TestModeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		set  func(bool)
		get  func() bool
	}{
		{"quiet", SetQuiet, IsQuiet},
		{"debug", SetDebug, IsDebug},
		{"verbose", SetVerbose, IsVerbose},
	}

	for _, tt := range tests {
		tt.set(true)
		if !tt.get() {
			t.Fatalf("%s mode not recorded", tt.name)
		}
		tt.set(false)
		if tt.get() {
			t.Fatalf("%s mode not cleared", tt.name)
		}
	}
}

func TestParseRawMode(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		if got := parseRawMode(tt.raw); got != tt.want {
			t.Fatalf("parseRawMode(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
