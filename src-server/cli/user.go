package cli

import (
	"fmt"
	"text/tabwriter"

	"alignify/src-server/handler"
	"alignify/src-server/manager"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their calendars",
	}

	var firstName, lastName, source string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user with an ICS calendar (file path or URL)",
		Args:  cobra.NoArgs,
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			user, result, err := handler.CreateUser(cmd.Context(), as, handler.NewUser{
				FirstName: firstName,
				LastName:  lastName,
				Source:    source,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s (%s): %d events imported, %d skipped\n",
				user.ID, user.FullName(), user.Color(), len(result.Imported), result.Skipped)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&firstName, "first", "", "first name")
	addCmd.Flags().StringVar(&lastName, "last", "", "last name")
	addCmd.Flags().StringVar(&source, "ics", "", "ICS file path or http(s)/webcal URL")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tEVENTS\tSOURCE")
			for _, u := range as.Registry.Users() {
				details, err := as.Registry.UserDetails(u.ID)
				if err != nil {
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", u.ID, details.FullName, details.Color, details.TotalEvents, u.Source)
			}
			return tw.Flush()
		}),
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a user and every event of their calendar",
		Args:  cobra.ExactArgs(1),
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			marks, err := as.Registry.DeleteUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
			printMarks(cmd, marks)
			return nil
		}),
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh <id>",
		Short: "Re-fetch a user's remote calendar now",
		Args:  cobra.ExactArgs(1),
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, ok := as.Registry.User(id)
			if !ok {
				return fmt.Errorf("user %d: %w", id, manager.ErrNotFound)
			}
			if _, _, err := handler.RefreshCalendar(cmd.Context(), as, user, ""); err != nil {
				return err
			}
			details, err := as.Registry.UserDetails(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d now has %d events\n", id, details.TotalEvents)
			return nil
		}),
	}

	userCmd.AddCommand(addCmd, listCmd, rmCmd, refreshCmd)
	return userCmd
}
