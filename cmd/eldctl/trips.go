package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/hos-planner/internal/domain"
)

func tripsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "trips",
		Short:             "List and manage trips",
		PersistentPreRunE: requireSession(e),
	}
	cmd.AddCommand(
		tripsListCmd(e),
		tripsShowCmd(e),
		tripsSummaryCmd(e),
		tripsStatusCmd(e, "start", "Mark a trip in progress", domain.TripInProgress),
		tripsStatusCmd(e, "complete", "Mark a trip completed", domain.TripCompleted),
		tripsDeleteCmd(e),
	)
	return cmd
}

func tripsListCmd(e *env) *cobra.Command {
	var (
		status  string
		search  string
		vehicle int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := domain.NewTripListParams(optional(status), optionalInt(limit), nil)
			var (
				trips []domain.Trip
				err   error
			)
			if search != "" || vehicle > 0 {
				trips, err = e.app.Trips.Search(cmd.Context(), domain.TripFilter{
					Search:    search,
					Status:    params.Status,
					VehicleID: vehicle,
				})
			} else {
				trips, err = e.app.Trips.List(cmd.Context(), params)
			}
			if err != nil {
				return err
			}
			return e.printer.print(trips, func(w io.Writer) error {
				return writeTripTable(w, trips)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Only trips with this status (PLANNED, IN_PROGRESS, COMPLETED)")
	f.StringVar(&search, "search", "", "Match pickup, dropoff or vehicle number")
	f.IntVar(&vehicle, "vehicle", 0, "Only trips using this vehicle id")
	f.IntVar(&limit, "limit", 0, "Maximum number of trips (at most 100)")
	return cmd
}

func tripsShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show TRIP_ID",
		Short: "Show one trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			trip, err := e.app.Trips.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printer.print(trip, func(w io.Writer) error {
				return writeTripDetails(w, trip)
			})
		},
	}
}

func tripsSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count trips per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := e.app.Trips.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer.print(sum, func(w io.Writer) error {
				fmt.Fprintf(w, "Total:\t%d\n", sum.Total)
				fmt.Fprintf(w, "Planned:\t%d\n", sum.Planned)
				fmt.Fprintf(w, "In progress:\t%d\n", sum.InProgress)
				fmt.Fprintf(w, "Completed:\t%d\n", sum.Completed)
				_, err := fmt.Fprintf(w, "Avg cycle hours:\t%.1f\n", sum.AverageCycleHours)
				return err
			})
		},
	}
}

func tripsStatusCmd(e *env, use, short string, status domain.TripStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TRIP_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			trip, err := e.app.Trips.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			return e.printer.message(trip, "Trip %d is now %s", trip.ID, trip.Status)
		},
	}
}

func tripsDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TRIP_ID",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.app.Trips.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return e.printer.message(map[string]int{"deleted": id}, "Trip %d deleted", id)
		},
	}
}

func writeTripTable(w io.Writer, trips []domain.Trip) error {
	if len(trips) == 0 {
		_, err := fmt.Fprintln(w, "No trips.")
		return err
	}
	fmt.Fprintln(w, "ID\tSTATUS\tSTART\tPICKUP\tDROPOFF\tVEHICLE\tCYCLE H")
	for _, t := range trips {
		vehicle := "-"
		if t.Vehicle != nil {
			vehicle = t.Vehicle.VehicleNumber
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.1f\n",
			t.ID, t.Status, t.StartTime.Format("2006-01-02 15:04"),
			placeName(t.PickupLocationName, t.PickupLocation),
			placeName(t.DropoffLocationName, t.DropoffLocation),
			vehicle, t.CurrentCycleHours)
	}
	return nil
}

func writeTripDetails(w io.Writer, t domain.Trip) error {
	fmt.Fprintf(w, "Trip:\t%d\n", t.ID)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintf(w, "Start:\t%s\n", t.StartTime.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Current:\t%s\n", placeName(t.CurrentLocationName, t.CurrentLocation))
	fmt.Fprintf(w, "Pickup:\t%s\n", placeName(t.PickupLocationName, t.PickupLocation))
	fmt.Fprintf(w, "Dropoff:\t%s\n", placeName(t.DropoffLocationName, t.DropoffLocation))
	if t.Vehicle != nil {
		fmt.Fprintf(w, "Vehicle:\t%s (%s %s)\n", t.Vehicle.VehicleNumber, t.Vehicle.State, t.Vehicle.LicensePlate)
	}
	if t.Driver != nil {
		fmt.Fprintf(w, "Driver:\t%s\n", t.Driver.FullName)
	}
	_, err := fmt.Fprintf(w, "Cycle hours used:\t%.1f\n", t.CurrentCycleHours)
	return err
}

func placeName(name string, p domain.GeoPoint) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
