package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/logging"
	"github.com/myrjola/pfaplan/internal/plan"
	"github.com/myrjola/pfaplan/internal/report"
	"github.com/spf13/cobra"
)

// ErrAdvisories is returned by generate when the configuration has advisories and --force is not given.
var ErrAdvisories = errors.NewSentinel("configuration has advisories")

const maxPrintedRecommendations = 3

type cli struct {
	logger    *slog.Logger
	level     *slog.LevelVar
	lookupEnv func(string) (string, bool)
	stdout    io.Writer
	envFile   string
	settings  settings
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pfaplan",
		Short: "Plan training, meals and supplements towards a physical fitness assessment",
		Long: `pfaplan turns a YAML configuration into a week by week training program,
meal plan and supplement schedule, exported as iCalendar files and reports.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.loadSettings()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file merged into the environment")
	root.AddCommand(c.generateCommand(), c.validateCommand(), c.templateCommand())
	return root
}

func (c *cli) generateCommand() *cobra.Command {
	var (
		force bool
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "generate <config>",
		Short: "Generate the plan, calendars and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("config", args[0]))
			cfg, err := config.Load(args[0], c.lookupEnv)
			if err != nil {
				return err
			}
			if advisories := cfg.Advisories(); len(advisories) > 0 {
				c.printList("Configuration advisories:", advisories)
				if !force {
					return errors.Wrap(ErrAdvisories, "rerun with --force to generate anyway")
				}
			}

			opts := plan.Options{
				Seed:        c.settings.Seed,
				RecipeCache: c.settings.RecipeCache,
				OutputDir:   c.settings.OutputDir,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			svc := plan.NewService(c.logger, cfg, opts)
			p, err := svc.Generate(ctx)
			if err != nil {
				return errors.Wrap(err, "generate plan")
			}
			calendars, err := svc.ExportCalendars(ctx, p)
			if err != nil {
				return errors.Wrap(err, "export calendars")
			}
			files, err := report.NewWriter(c.logger, svc.ReportDir()).Write(ctx, p, calendars)
			if err != nil {
				return errors.Wrap(err, "write reports")
			}
			c.printSummary(p, calendars, files)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&force, "force", false, "generate even when the configuration has advisories")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for meal selection, overrides PFAPLAN_SEED")
	return cmd
}

func (c *cli) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a configuration and list advisories",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0], c.lookupEnv)
			if err != nil {
				return err
			}
			if advisories := cfg.Advisories(); len(advisories) > 0 {
				c.printList("Configuration advisories:", advisories)
				return nil
			}
			fmt.Fprintln(c.stdout, "Configuration is valid")
			return nil
		},
		SilenceUsage: true,
	}
}

func (c *cli) templateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <path>",
		Short: "Write the default configuration to path",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0]); err != nil {
				return errors.Wrap(err, "write template")
			}
			fmt.Fprintf(c.stdout, "Default configuration template created: %s\n", args[0])
			return nil
		},
		SilenceUsage: true,
	}
}

func (c *cli) printList(header string, items []string) {
	fmt.Fprintln(c.stdout, header)
	for _, item := range items {
		fmt.Fprintf(c.stdout, "  - %s\n", item)
	}
}

func (c *cli) printSummary(p *plan.Plan, calendars map[string]string, files report.Files) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated %d week plan starting %s\n", p.Weeks(), p.StartDate().Format(time.DateOnly))
	fmt.Fprintf(&sb, "Calendar: %s\n", calendars["combined"])
	fmt.Fprintf(&sb, "Fitness progression: %s\n", files.FitnessProgression)
	fmt.Fprintf(&sb, "Program validation: %s\n", files.ProgramValidation)
	fmt.Fprintf(&sb, "Meal plans: %s\n", files.MealPlans)
	fmt.Fprintf(&sb, "Summary: %s\n", files.Summary)
	if recs := p.Balance.Recommendations; len(recs) > 0 {
		sb.WriteString("Recommendations:\n")
		for _, r := range recs[:min(len(recs), maxPrintedRecommendations)] {
			fmt.Fprintf(&sb, "  - %s\n", r)
		}
	}
	_, _ = io.WriteString(c.stdout, sb.String())
}
