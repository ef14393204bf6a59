package cli

import (
	"fmt"
	"time"

	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createFreeCmd() *cobra.Command {
	var at string
	freeCmd := &cobra.Command{
		Use:   "free",
		Short: "List the users with nothing starting at a given minute",
		Args:  cobra.NoArgs,
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			t, err := utils.ParseTime(as.When, at, time.Now().In(as.Registry.Location()))
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "at %s\n", t.Format(time.RFC1123Z))
			printUsers(cmd, "available", as.Registry.AvailableAt(t))
			return nil
		}),
	}
	freeCmd.Flags().StringVar(&at, "at", "now", `time to check, e.g. "2024-05-01 14:00" or "tomorrow 3pm"`)
	return freeCmd
}
