package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel_Variants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  WaRn  ", zerolog.WarnLevel}, // case + trim
		{"warning", zerolog.WarnLevel},  // alias
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"verbose", zerolog.InfoLevel}, // unknown -> info
	}

	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLogger_AppliesLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	SetupLogger("error", false)
	if got := zerolog.GlobalLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("level = %v; want error", got)
	}
	SetupLogger("debug", true) // pretty branch must not panic
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level = %v; want debug", got)
	}
}

func TestIsTruthy(t *testing.T) {
	trues := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	falses := []string{"", "0", "false", "no", "off", "n", "  ", "maybe"}

	for _, v := range trues {
		if !IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = false; want true", v)
		}
	}
	for _, v := range falses {
		if IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = true; want false", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q; want \"\"", got)
	}
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(empties) = %q; want \"\"", got)
	}
	// whitespace-only values are skipped but the winner keeps its spacing
	if got := FirstNonEmpty("   ", "  ru  ", "en"); got != "  ru  " {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "  ru  ")
	}
	if got := FirstNonEmpty("taxi", "food"); got != "taxi" {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "taxi")
	}
}
