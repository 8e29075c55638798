package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/timeline"
)

func dutyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "duty",
		Short:             "List and record duty statuses of a trip",
		PersistentPreRunE: requireSession(e),
	}
	cmd.AddCommand(dutyListCmd(e), dutyAddCmd(e))
	return cmd
}

func dutyListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list TRIP_ID",
		Short: "List the duty statuses of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			statuses, err := e.app.DutyStatuses.ListByTrip(cmd.Context(), id)
			if err != nil {
				return err
			}
			loc := e.app.ELDLogs.Location()
			return e.printer.print(statuses, func(w io.Writer) error {
				return writeDutyTable(w, statuses, loc)
			})
		},
	}
}

func dutyAddCmd(e *env) *cobra.Command {
	var (
		in         domain.DutyStatusInput
		status     string
		start, end string
		lon, lat   float64
	)
	cmd := &cobra.Command{
		Use:   "add TRIP_ID",
		Short: "Record a duty status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			loc := e.app.ELDLogs.Location()
			if in.StartTime, err = parseTime(start, loc); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if in.EndTime, err = parseTime(end, loc); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			in.Status = domain.DutyStatusKind(strings.ToUpper(status))
			in.Location = domain.GeoPoint{Lon: lon, Lat: lat}

			created, err := e.app.DutyStatuses.Create(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return e.printer.message(created, "Recorded %s %s to %s",
				timeline.Label(created.Status),
				created.StartTime.In(loc).Format("15:04"),
				created.EndTime.In(loc).Format("15:04"))
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "DRIVING, ON_DUTY_NOT_DRIVING, OFF_DUTY or SLEEPER_BERTH")
	f.StringVar(&start, "start", "", "Start time (RFC 3339, or YYYY-MM-DD HH:MM in TIMELINE_TZ)")
	f.StringVar(&end, "end", "", "End time (same formats as --start)")
	f.Float64Var(&lon, "lon", 0, "Longitude")
	f.Float64Var(&lat, "lat", 0, "Latitude")
	f.StringVar(&in.LocationDescription, "location", "", "Location description")
	f.StringVar(&in.Remarks, "remarks", "", "Remarks")
	_ = cmd.MarkFlagRequired("status")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// parseTime accepts RFC 3339 or a wall-clock "2006-01-02 15:04" in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}

func writeDutyTable(w io.Writer, statuses []domain.DutyStatus, loc *time.Location) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "No duty statuses.")
		return err
	}
	fmt.Fprintln(w, "ID\tSTATUS\tSTART\tEND\tHOURS\tLOCATION")
	for _, d := range statuses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
			d.ID, timeline.Label(d.Status),
			d.StartTime.In(loc).Format("2006-01-02 15:04"),
			d.EndTime.In(loc).Format("2006-01-02 15:04"),
			d.Duration().Hours(), d.LocationDescription)
	}
	return nil
}
