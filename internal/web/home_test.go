package web

import (
	"context"
	"strings"
	"testing"
)

func TestHomeRendersGameList(t *testing.T) {
	var buf strings.Builder
	err := Home([]GameSummary{
		{Code: "ABCD2345", State: "lobby", Players: 3},
		{Code: "WXYZ6789", State: "in-progress", Players: 5},
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Meme Royale", "ABCD2345", "WXYZ6789", "3 players", "in-progress"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}

func TestHomeEscapesGameFields(t *testing.T) {
	var buf strings.Builder
	err := Home([]GameSummary{
		{Code: "<script>", State: "lobby", Players: 1},
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<li><code><script>") {
		t.Fatal("game code was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("escaped game code missing from output")
	}
}
