package integration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/theater/internal/config"
	theatererrors "github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
	"github.com/AndreyAkinshin/theater/internal/results"
	"github.com/AndreyAkinshin/theater/internal/runner"
	"github.com/AndreyAkinshin/theater/pkg/theater"
)

func TestCrashFixture_Aborts(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir, user, _ := loadFixture(t, "crash", "theater.json")

	var buf bytes.Buffer
	log, err := runner.LaunchWith(context.Background(), user, runner.Options{
		Dir:    dir,
		Out:    output.NewWithWriters(&buf, &buf, false),
		Stderr: &buf,
	})
	if err == nil {
		t.Fatal("LaunchWith() expected error for crashing puppet")
	}

	var te *theatererrors.TheaterError
	if !errors.As(err, &te) || te.Kind != theatererrors.KindPuppet {
		t.Fatalf("error = %v, want a puppet error", err)
	}
	if te.Attempt != 2 || te.Puppet != "flaky.sh" {
		t.Errorf("error names %s attempt #%d, want flaky.sh attempt #2", te.Puppet, te.Attempt)
	}
	if code := theatererrors.GetExitCode(err); code != theater.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, theater.ExitFailure)
	}
	if got := log.Tests["flaky.sh"][0]; got != "1ms" {
		t.Errorf("first attempt result = %q, want 1ms", got)
	}
	if !strings.Contains(buf.String(), "second attempt crashes") {
		t.Error("puppet stderr was not passed through")
	}
}

func TestCrashFixture_ContinueOnFailure(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir, user, _ := loadFixture(t, "crash", "theater.json")
	user = config.Merge(user, map[string]any{
		"additionalParams": map[string]any{"continueOnFailure": true},
	})

	var buf bytes.Buffer
	log, err := runner.LaunchWith(context.Background(), user, runner.Options{
		Dir:    dir,
		Out:    output.NewWithWriters(&buf, &buf, false),
		Stderr: &buf,
	})
	if err != nil {
		t.Fatalf("LaunchWith() error = %v", err)
	}
	if got := log.Tests["flaky.sh"][1]; !strings.HasPrefix(got, results.CrashMarkerPrefix) {
		t.Errorf("second attempt result = %q, want crash marker", got)
	}
	if log.Attempts["flaky.sh"] != 2 {
		t.Errorf("Attempts = %d, want 2", log.Attempts["flaky.sh"])
	}
}

func TestInvalidUserConfig_ExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user map[string]any
	}{
		{"zero attempts", map[string]any{"attempts": 0}},
		{"pattern number", map[string]any{"path": map[string]any{"pattern": 5}}},
		{"callback string", map[string]any{"additionalParams": map[string]any{"callback": "echo"}}},
		{"silent string", map[string]any{"additionalParams": map[string]any{"silent": "yes"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := runner.LaunchWith(context.Background(), tt.user, runner.Options{
				Dir: t.TempDir(),
				Out: output.NewWithWriters(&buf, &buf, false),
			})
			if code := theatererrors.GetExitCode(err); code != theater.ExitConfigError {
				t.Errorf("exit code = %d (err %v), want %d", code, err, theater.ExitConfigError)
			}
			if buf.Len() != 0 {
				t.Errorf("invalid config produced run output:\n%s", buf.String())
			}
		})
	}
}
