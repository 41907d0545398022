package telnet

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	got := Colorize(Red, "danger")
	if got != Red+"danger"+Reset {
		t.Errorf("Colorize = %q", got)
	}
}

func TestColorf(t *testing.T) {
	got := Colorf(Green, "%d hp", 42)
	if got != Green+"42 hp"+Reset {
		t.Errorf("Colorf = %q", got)
	}
}

func TestStripANSI(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{Colorize(BrightYellow, "Rook"), "Rook"},
		{Bold + "x" + Reset + Dim + "y" + Reset, "xy"},
		{"no escapes here", "no escapes here"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripANSI(tc.in); got != tc.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPropertyStripANSI_UndoesColorize(t *testing.T) {
	colors := []string{Red, Green, Blue, BrightWhite, BgMagenta, Bold}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[ -~]*`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		if got := StripANSI(Colorize(color, text)); got != text {
			t.Fatalf("StripANSI(Colorize(%q)) = %q", text, got)
		}
	})
}

func TestPropertyStripANSI_NoEscapesRemain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.StringMatching(`[ -~]{0,6}`)).Draw(t, "parts")
		in := strings.Join(parts, BrightCyan) + Reset
		got := StripANSI(in)
		if strings.Contains(got, "\033[") {
			t.Fatalf("escape survived: %q", got)
		}
		if len(got) > len(in) {
			t.Fatalf("output grew: %d > %d", len(got), len(in))
		}
	})
}
