package shared

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFormatPrice(t *testing.T) {
	tc := []struct {
		name   string
		amount int
		want   string
	}{
		{name: "zero", amount: 0, want: "Rp 0"},
		{name: "hundreds", amount: 750, want: "Rp 750"},
		{name: "thousands", amount: 50000, want: "Rp 50.000"},
		{name: "millions", amount: 1250000, want: "Rp 1.250.000"},
		{name: "negative", amount: -45000, want: "Rp -45.000"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.amount); got != tt.want {
				t.Errorf("FormatPrice(%d) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatShowTime(t *testing.T) {
	showTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	jakarta := time.FixedZone("WIB", 7*60*60)

	if got := FormatShowTime(showTime, time.UTC); got != "10:00" {
		t.Errorf("FormatShowTime() UTC = %v, want 10:00", got)
	}
	if got := FormatShowTime(showTime, jakarta); got != "17:00" {
		t.Errorf("FormatShowTime() WIB = %v, want 17:00", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(155); got != "155 minutes" {
		t.Errorf("FormatMinutes(155) = %v", got)
	}
	if got := FormatMinutes(1); got != "1 minute" {
		t.Errorf("FormatMinutes(1) = %v", got)
	}
}

func TestPosterURL(t *testing.T) {
	t.Run("uses poster when present", func(t *testing.T) {
		if got := PosterURL("https://img.example/dune.jpg", "Dune"); got != "https://img.example/dune.jpg" {
			t.Errorf("PosterURL() = %v", got)
		}
	})

	t.Run("placeholder breaks the first space", func(t *testing.T) {
		got := PosterURL("", "Star Wars IV")
		if !strings.HasPrefix(got, PlaceholderPosterBase+"?text=") {
			t.Fatalf("PosterURL() = %v, want placeholder", got)
		}
		if !strings.Contains(got, "Star%0AWars+IV") {
			t.Errorf("PosterURL() = %v, want first space replaced by newline", got)
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("ApplyLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := ApplyLogLevel(logger, "debug"); err != nil {
			t.Fatalf("ApplyLogLevel() error = %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be a no-op, got %v", err)
		}

		if err := ApplyLogLevel(logger, "loud"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "marquee.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("written")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}

func TestOpenBrowser(t *testing.T) {
	var started []string
	origStart, origRuntime := startCommand, getRuntime
	startCommand = func(cmd *exec.Cmd) error {
		started = cmd.Args
		return nil
	}
	getRuntime = func() string { return "linux" }
	t.Cleanup(func() { startCommand, getRuntime = origStart, origRuntime })

	t.Run("opens http urls", func(t *testing.T) {
		if err := OpenBrowser("https://img.example/dune.jpg"); err != nil {
			t.Fatalf("OpenBrowser() error = %v", err)
		}
		if len(started) != 2 || started[0] != "xdg-open" {
			t.Errorf("unexpected command %v", started)
		}
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		for _, u := range []string{"file:///etc/passwd", "not a url", ""} {
			if err := OpenBrowser(u); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenBrowser(%q) expected ErrInvalidArgument, got %v", u, err)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = func() string { return "linux" } }()

		if err := OpenBrowser("https://img.example/dune.jpg"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
