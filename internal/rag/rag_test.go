package rag

import "testing"

func TestStripThink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain answer", "plain answer"},
		{"<think>reasoning\nacross lines</think>the answer", "the answer"},
		{"  <think>x</think>  spaced  ", "spaced"},
		{"<think>only thoughts</think>", ""},
	}
	for _, tt := range tests {
		if got := stripThink(tt.in); got != tt.want {
			t.Errorf("stripThink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
