package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/bootstrap"
	"github.com/example/seat-planner/internal/config"
	"github.com/example/seat-planner/internal/seatplan"
)

// options holds the persistent flags shared by every command.
type options struct {
	store    string
	dataFile string
	dsn      string
	date     string
	asJSON   bool
	verbose  bool
}

// session is a plan service loaded from the configured store.
type session struct {
	svc *application.PlanService
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "seatplanctl",
		Short:        "Plan daily desk assignments from the command line",
		Long:         "seatplanctl works directly on the planner document configured through SEATPLAN_* variables or the flags below.",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.store, "store", "", "document store: json or sqlite (default from SEATPLAN_STORE)")
	flags.StringVar(&opts.dataFile, "data-file", "", "JSON document path (default from SEATPLAN_DATA_FILE)")
	flags.StringVar(&opts.dsn, "sqlite-dsn", "", "SQLite database path (default from SEATPLAN_SQLITE_DSN)")
	flags.StringVar(&opts.date, "date", "", "date as YYYY-MM-DD (default today)")
	flags.BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log operations to stderr")

	rootCmd.AddCommand(
		newAutoAssignCmd(opts),
		newAssignCmd(opts),
		newUnassignCmd(opts),
		newClearDayCmd(opts),
		newWeekCmd(opts),
		newDaySheetCmd(opts),
		newCandidatesCmd(opts),
		newPruneCmd(opts),
	)
	return rootCmd
}

func newAutoAssignCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "auto-assign",
		Short: "Seat everyone present on the date who has no seat yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				result, err := s.svc.AutoAssign(ctx, opts.dayKey(s))
				if failed(err) {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return errors.Join(writeJSON(out, result), warnIfUnsaved(cmd, err))
				}
				doc, _ := s.svc.Snapshot(ctx)
				fmt.Fprintf(out, "%s: %d seated, %d without seat\n", result.Date, len(result.Assignments), len(result.Unseated))
				printDay(out, doc, result.Assignments)
				for _, p := range result.Unseated {
					fmt.Fprintf(out, "unseated\t%s\n", p.Name)
				}
				return warnIfUnsaved(cmd, err)
			})
		},
	}
}

func newAssignCmd(opts *options) *cobra.Command {
	var seatID, personID string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Seat a person at a seat on the date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				return setAssignment(ctx, cmd, opts, s, seatID, personID)
			})
		},
	}
	cmd.Flags().StringVar(&seatID, "seat", "", "seat id")
	cmd.Flags().StringVar(&personID, "person", "", "person id")
	_ = cmd.MarkFlagRequired("seat")
	_ = cmd.MarkFlagRequired("person")
	return cmd
}

func newUnassignCmd(opts *options) *cobra.Command {
	var seatID string
	cmd := &cobra.Command{
		Use:   "unassign",
		Short: "Free a seat on the date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				return setAssignment(ctx, cmd, opts, s, seatID, "")
			})
		},
	}
	cmd.Flags().StringVar(&seatID, "seat", "", "seat id")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

func setAssignment(ctx context.Context, cmd *cobra.Command, opts *options, s session, seatID, personID string) error {
	date := opts.dayKey(s)
	day, err := s.svc.SetAssignment(ctx, date, seatID, personID)
	if failed(err) {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.asJSON {
		return errors.Join(writeJSON(out, map[string]any{"date": date, "assignments": day}), warnIfUnsaved(cmd, err))
	}
	doc, _ := s.svc.Snapshot(ctx)
	printDay(out, doc, day)
	return warnIfUnsaved(cmd, err)
}

func newClearDayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-day",
		Short: "Remove every assignment of the date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				date := opts.dayKey(s)
				err := s.svc.ClearDay(ctx, date)
				if failed(err) {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", date)
				return warnIfUnsaved(cmd, err)
			})
		},
	}
}

func newWeekCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the Monday to Friday overview around the date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				plan, err := s.svc.Week(ctx, opts.dayKey(s))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return writeJSON(out, plan)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "NAME\t%s\n", strings.Join(plan.Dates, "\t"))
				for _, row := range plan.Rows {
					cells := make([]string, len(row.Days))
					for i, cell := range row.Days {
						cells[i] = formatCell(cell)
					}
					fmt.Fprintf(tw, "%s\t%s\n", row.Name, strings.Join(cells, "\t"))
				}
				return tw.Flush()
			})
		},
	}
}

func newDaySheetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "day-sheet",
		Short: "List everyone present on the date with their seat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				lines, err := s.svc.DaySheet(ctx, opts.dayKey(s))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return writeJSON(out, lines)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSEAT\tROOM")
				for _, line := range lines {
					seat, room := "-", "-"
					if line.Seated {
						seat, room = line.SeatID, line.RoomName
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", line.Name, seat, room)
				}
				return tw.Flush()
			})
		},
	}
}

func newCandidatesCmd(opts *options) *cobra.Command {
	var seatID string
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the people who may take a seat on the date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				people, err := s.svc.Candidates(ctx, opts.dayKey(s), seatID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return writeJSON(out, people)
				}
				for _, p := range people {
					fmt.Fprintf(out, "%s\t%s\n", p.ID, p.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seatID, "seat", "", "seat id")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

func newPruneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop assignments naming deleted seats or people and duplicate seatings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s session) error {
				dropped, err := s.svc.PruneAssignments(ctx)
				if failed(err) {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return errors.Join(writeJSON(out, map[string]int{"dropped": dropped}), warnIfUnsaved(cmd, err))
				}
				fmt.Fprintf(out, "%d assignments dropped\n", dropped)
				return warnIfUnsaved(cmd, err)
			})
		},
	}
}

// withSession loads the configured document, runs fn and closes the store.
func withSession(cmd *cobra.Command, opts *options, fn func(context.Context, session) error) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := bootstrap.NewLogger(cmd.ErrOrStderr(), level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	svc, err := bootstrap.NewPlanService(ctx, store, nil, logger)
	if err != nil {
		return err
	}
	return explain(fn(ctx, session{svc: svc}))
}

// explain spells out validation failures, whose Error text is generic.
func explain(err error) error {
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) || !vErr.HasErrors() {
		return err
	}
	fields := make([]string, 0, len(vErr.FieldErrors))
	for field := range vErr.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + vErr.FieldErrors[field]
	}
	return fmt.Errorf("%w: %s", err, strings.Join(parts, "; "))
}

// config applies the flags over the environment configuration.
func (o *options) config() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if o.store != "" {
		cfg.Store = strings.ToLower(o.store)
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	if o.dsn != "" {
		cfg.SQLiteDSN = o.dsn
	}
	return cfg, nil
}

func (o *options) dayKey(s session) string {
	if o.date != "" {
		return o.date
	}
	return seatplan.DateKey(s.svc.Today())
}

func failed(err error) bool {
	return err != nil && !errors.Is(err, application.ErrSaveFailed)
}

func warnIfUnsaved(cmd *cobra.Command, err error) error {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change applied but not saved: %v\n", err)
		return err
	}
	return nil
}

func printDay(out io.Writer, doc seatplan.Document, day seatplan.DayAssignments) {
	for _, seat := range doc.Seats {
		personID, ok := day[seat.ID]
		if !ok {
			continue
		}
		name := personID
		if p, found := seatplan.FindPerson(doc.People, personID); found {
			name = p.Name
		}
		fmt.Fprintf(out, "%s\t%s\n", seat.ID, name)
	}
}

func formatCell(cell seatplan.WeekCell) string {
	switch cell.Status {
	case seatplan.StatusAssigned:
		return cell.SeatID + " (" + cell.RoomName + ")"
	case seatplan.StatusUnassigned:
		return "ohne Platz"
	default:
		return "-"
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
