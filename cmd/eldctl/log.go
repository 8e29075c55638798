package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/service"
	"github.com/pkordes/hos-planner/internal/timeline"
)

func logCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "log",
		Short:             "View and generate daily ELD logs",
		PersistentPreRunE: requireSession(e),
	}
	cmd.AddCommand(logViewCmd(e), logGenerateCmd(e))
	return cmd
}

func logViewCmd(e *env) *cobra.Command {
	var (
		date  string
		miles float64
	)
	cmd := &cobra.Command{
		Use:   "view TRIP_ID",
		Short: "Print the 24-hour graph of one log day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := domain.ParseDate(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			var preview *float64
			if cmd.Flags().Changed("miles") {
				preview = &miles
			}
			view, err := e.app.ELDLogs.View(cmd.Context(), id, d, preview)
			if err != nil {
				return err
			}
			return e.printer.print(view, func(w io.Writer) error {
				return writeLogView(w, view)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Log date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&miles, "miles", 0, "Preview mileage when no log exists for the date")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func logGenerateCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "generate TRIP_ID",
		Short: "Ask the HOS API to generate the log of one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := domain.ParseDate(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			res, err := e.app.ELDLogs.Generate(cmd.Context(), id, d)
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = fmt.Sprintf("Generated %d log(s)", len(res.Logs))
			}
			return e.printer.message(res, "%s", msg)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Log date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func writeLogView(w io.Writer, v service.LogView) error {
	fmt.Fprintf(w, "Trip %d, %s\n", v.TripID, v.Date)
	fmt.Fprintf(w, "Total miles: %s\n", milesText(v.TotalMiles))
	if v.Preview() {
		fmt.Fprintln(w, "(preview, no log generated for this date)")
	}
	fmt.Fprintln(w)
	if len(v.Segments) == 0 {
		_, err := fmt.Fprintln(w, "No duty statuses recorded on this date.")
		return err
	}
	return timeline.RenderText(w, v.Segments)
}

func milesText(m *float64) string {
	if m == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *m)
}
