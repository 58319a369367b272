package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"medremind/internal/domain/tracking"
	"medremind/internal/engine"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's doses and progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			v := tracking.BuildToday(s, now())
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return renderToday(cmd.OutOrStdout(), v)
		})
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next dose of each active medication",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			v := tracking.BuildToday(s, now())
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), v.NextDoses)
			}
			return renderNext(cmd.OutOrStdout(), v.NextDoses)
		})
	},
}

var refillsCmd = &cobra.Command{
	Use:   "refills",
	Short: "Show supply levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			items := tracking.BuildRefills(s)
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return renderRefills(cmd.OutOrStdout(), items)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show adherence over the last days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		n, err := tracking.ParseDays(strconv.Itoa(days))
		if err != nil {
			return err
		}
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			v := tracking.BuildStats(s, n, now())
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return renderStats(cmd.OutOrStdout(), v)
		})
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month with dose activity and one day's plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		selected, _ := cmd.Flags().GetString("selected")

		t := now()
		year, mon, err := tracking.ParseMonth(month, t)
		if err != nil {
			return err
		}
		var sel engine.Date
		if selected != "" {
			d, ok := engine.ParseDate(selected)
			if !ok {
				return errInvalidDate(selected)
			}
			sel = d
		}

		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			v := tracking.BuildCalendar(s, year, mon, sel, t)
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return renderCalendar(cmd.OutOrStdout(), v)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show dose history grouped by day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			loc := cfg.Location()
			v := tracking.BuildHistory(s, engine.ParseHistoryFilter(filter), loc)
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return renderHistory(cmd.OutOrStdout(), v, loc)
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the pending dose and refill reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshot(cmd.Context(), cmd.ErrOrStderr(), func(s engine.Snapshot) error {
			plan := tracking.BuildPlan(s, now())
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			return renderPlan(cmd.OutOrStdout(), plan, cfg.Location())
		})
	},
}

func init() {
	statsCmd.Flags().Int("days", tracking.DefaultStatsDays, "Window size in days")
	calendarCmd.Flags().String("month", "", "Month as YYYY-MM (default: current)")
	calendarCmd.Flags().String("selected", "", "Day as YYYY-MM-DD (default: today)")
	historyCmd.Flags().String("filter", "all", "all, taken or missed")

	RootCmd.AddCommand(todayCmd, nextCmd, refillsCmd, statsCmd, calendarCmd, historyCmd, planCmd)
}
