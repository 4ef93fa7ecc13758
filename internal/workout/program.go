package workout

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// GenerateProgram builds every week of the program concurrently. Weeks are independent of each other.
func (e *Engine) GenerateProgram(ctx context.Context, weeks int) (Program, error) {
	start := time.Now()
	program := Program{
		TotalWeeks:  weeks,
		ProgramType: ProgramType,
		Weeks:       make([]Week, weeks),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for week := range weeks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck // cancellation
			}
			w, err := e.WeeklyWorkouts(gctx, week)
			if err != nil {
				return fmt.Errorf("week %d: %w", week+1, err)
			}
			program.Weeks[week] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Program{}, fmt.Errorf("generate program: %w", err)
	}

	e.logger.LogAttrs(ctx, slog.LevelInfo, "generated workout program",
		slog.Int("weeks", weeks), slog.Duration("duration", time.Since(start)))
	return program, nil
}

// MarshalYAML keys weeks as week_N and days by name, keeping calendar order.
func (p Program) MarshalYAML() (any, error) {
	weeks := &yaml.Node{Kind: yaml.MappingNode}
	for _, week := range p.Weeks {
		days := &yaml.Node{Kind: yaml.MappingNode}
		for _, w := range week.Workouts {
			value := &yaml.Node{}
			if err := value.Encode(w); err != nil {
				return nil, fmt.Errorf("encode %s of week %d: %w", w.Day, week.Number, err)
			}
			days.Content = append(days.Content, scalar(w.Day), value)
		}
		weeks.Content = append(weeks.Content, scalar(fmt.Sprintf("week_%d", week.Number)), days)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	total := &yaml.Node{}
	if err := total.Encode(p.TotalWeeks); err != nil {
		return nil, fmt.Errorf("encode total weeks: %w", err)
	}
	root.Content = append(root.Content,
		scalar("total_weeks"), total,
		scalar("program_type"), scalar(p.ProgramType),
		scalar("weekly_workouts"), weeks,
	)
	return root, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
