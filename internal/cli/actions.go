package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"medremind/internal/engine"
)

var takeCmd = &cobra.Command{
	Use:   "take <medication-id>",
	Short: "Record a dose as taken (or missed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		missed, _ := cmd.Flags().GetBool("missed")
		atFlag, _ := cmd.Flags().GetString("at")

		at, err := parseAt(atFlag, now())
		if err != nil {
			return err
		}

		api, err := newAPIClient()
		if err != nil {
			return err
		}
		entry, err := api.RecordDose(cmd.Context(), args[0], !missed, at)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), entry)
		}
		status := "taken"
		if !entry.Taken {
			status = "missed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s at %s (%s)\n", status, entry.Timestamp.In(cfg.Location()).Format("2006-01-02 15:04"), entry.ID)
		return nil
	},
}

var refillCmd = &cobra.Command{
	Use:   "refill <medication-id>",
	Short: "Mark a medication as refilled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPIClient()
		if err != nil {
			return err
		}
		med, err := api.Refill(cmd.Context(), args[0])
		if errors.Is(err, engine.ErrAlreadyFull) {
			fmt.Fprintln(cmd.OutOrStdout(), "Supply is already full.")
			return nil
		}
		if err != nil {
			return err
		}

		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), med)
		}
		supply := "-"
		if med.CurrentSupply != nil {
			supply = fmt.Sprintf("%d", *med.CurrentSupply)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Refilled %s: supply %s\n", med.Name, supply)
		return nil
	},
}

// parseAt acepta vacío (ahora, lo pone el server), HH:MM de hoy o RFC3339.
func parseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if mins, ok := engine.ParseClock(s); ok {
		return engine.DateOf(now).At(mins, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid --at %q (HH:MM or RFC3339)", s)
}

func errInvalidDate(s string) error {
	return fmt.Errorf("invalid date %q (YYYY-MM-DD)", s)
}

func init() {
	takeCmd.Flags().Bool("missed", false, "Record the dose as missed")
	takeCmd.Flags().String("at", "", "When: HH:MM today or RFC3339 (default: now)")

	RootCmd.AddCommand(takeCmd, refillCmd)
}
