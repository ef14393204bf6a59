package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"alignify/src-server/manager"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createMarksCmd() *cobra.Command {
	var month string
	marksCmd := &cobra.Command{
		Use:   "marks",
		Short: "Show how each date of a month is marked",
		Args:  cobra.NoArgs,
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			m := time.Now().In(as.Registry.Location())
			if month != "" {
				var err error
				if m, err = time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("--month must look like 2006-01: %w", err)
				}
			}
			printMarks(cmd, as.Registry.MonthMarks(m.Year(), m.Month()))
			return nil
		}),
	}
	marksCmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM, defaults to the current one")
	return marksCmd
}

func printMarks(cmd *cobra.Command, marks []manager.DateMark) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tMARK\tCOLOR\tOWNERS")
	for _, m := range marks {
		color := "-"
		if m.Color != nil {
			color = m.Color.String()
		}
		owners := make([]string, 0, len(m.Owners))
		for _, id := range m.Owners {
			owners = append(owners, fmt.Sprint(id))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Date, m.Kind, color, strings.Join(owners, ","))
	}
	tw.Flush()
}
