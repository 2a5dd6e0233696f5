package sanitizer

import "testing"

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid E164 passes through", "+14155550123", "+14155550123"},
		{"valid E164 with whitespace", "  +14155550123  ", "+14155550123"},
		{"US national format", "(415) 555-0123", "+14155550123"},
		{"GB national format", "020 7946 0958", "+442079460958"},
		{"empty input", "", ""},
		{"garbage", "not-a-phone", ""},
		{"too short", "+12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
