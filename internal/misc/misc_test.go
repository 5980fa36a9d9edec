package misc

import "testing"

func TestStringLimit(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello world", 20, "hello world"},
		{"hello world", 8, "hello..."},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"hello", -1, ""},
	}
	for _, tt := range tests {
		if got := StringLimit(tt.s, tt.n); got != tt.want {
			t.Errorf("StringLimit(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.1234, 0.123},
		{0.1235, 0.124},
		{-0.1234, -0.123},
		{1, 1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round3(tt.in); got != tt.want {
			t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsPlainASCII(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"usb hub", true},
		{"USB-C Hub 7in1", true},
		{"", false},
		{"навушники", false},
		{"café", false},
		{"50% off!", false},
	}
	for _, tt := range tests {
		if got := IsPlainASCII(tt.in); got != tt.want {
			t.Errorf("IsPlainASCII(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
