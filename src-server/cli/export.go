package cli

import (
	"fmt"

	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/model"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <user id | agenda>",
		Short: "Write a calendar as ICS to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			ownerID, name := model.AgendaOwnerID, "Agenda"
			if args[0] != "agenda" {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				user, ok := as.Registry.User(id)
				if !ok {
					return fmt.Errorf("user %d: %w", id, manager.ErrNotFound)
				}
				ownerID, name = id, user.FullName()
			}
			events, err := as.Registry.UserEvents(ownerID)
			if err != nil {
				return err
			}
			return ical.Export(cmd.OutOrStdout(), name, events, as.Registry.Location())
		}),
	}
}
