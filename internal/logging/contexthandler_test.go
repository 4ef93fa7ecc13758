package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/pfaplan/internal/logging"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := logging.WithAttrs(t.Context(), slog.Int("week", 3))
	child := logging.WithAttrs(ctx, slog.String("meal_type", "dinner"))
	logger.LogAttrs(child, slog.LevelInfo, "generated options")
	logger.LogAttrs(ctx, slog.LevelInfo, "parent only")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "week=3") || !strings.Contains(lines[0], "meal_type=dinner") {
		t.Errorf("child record missing context attrs: %s", lines[0])
	}
	if strings.Contains(lines[1], "meal_type") {
		t.Errorf("child attrs leaked into parent context: %s", lines[1])
	}
}

func TestContextHandlerWithoutAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))
	logger.LogAttrs(context.Background(), slog.LevelInfo, "plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
