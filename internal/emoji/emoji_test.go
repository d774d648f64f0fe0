package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	tests := []struct {
		key      string
		disabled bool
		want     string
	}{
		{"statistics", false, "📊"},
		{"statistics", true, "[STATS]"},
		{"up", true, "+"},
		{"missing", false, "[?]"},
	}

	for _, tt := range tests {
		SetEmojiDisabled(tt.disabled)
		if got := GetEmoji(tt.key); got != tt.want {
			t.Errorf("GetEmoji(%q) disabled=%v = %q, want %q", tt.key, tt.disabled, got, tt.want)
		}
	}

	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Error("expected disabled state to stick")
	}
}
