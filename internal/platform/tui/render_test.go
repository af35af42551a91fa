package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "plain")
	s.DrawTextColor(2, 1, "green", core.ColorGreen)
	s.SetColor(11, 2, '●', core.ColorBrightMagenta)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "plain") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "green") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "●") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestRenderScreenDefaultIsUnstyled(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 1, "ab")

	if got, want := RenderScreen(s), "     \nab   "; got != want {
		t.Errorf("RenderScreen = %q, want %q", got, want)
	}
}
