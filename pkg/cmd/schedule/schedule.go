package schedule

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/f1insight/frameforge/pkg/cmd/util"
	"github.com/f1insight/frameforge/pkg/model"
)

var sprintOnly bool

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <year>",
		Short: "list the race weekends of a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			return runSchedule(cmd, year)
		},
	}
	cmd.Flags().BoolVar(&sprintOnly, "sprint-only", false,
		"only list sprint weekends")
	return cmd
}

func runSchedule(cmd *cobra.Command, year int) error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	client := util.NewSourceClient()
	events, err := client.ListEvents(cmd.Context(), year)
	if err != nil {
		return err
	}
	if sprintOnly {
		events = lo.Filter(events, func(e model.Event, _ int) bool {
			return e.Format == model.FormatSprint
		})
	}
	for i := range events {
		date := "TBA"
		if !events[i].Date.IsZero() {
			date = events[i].Date.Format("2006-01-02")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Round %d: %s (%s)\n",
			events[i].RoundNumber, events[i].Name, date)
	}
	return nil
}
