package cli

import (
	"fmt"
	"time"

	"alignify/src-server/manager"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createEventCmd() *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Manage the events you create",
	}

	var title, at, end, description, location string
	var wholeDay bool
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			now := time.Now().In(as.Registry.Location())
			start, err := utils.ParseTime(as.When, at, now)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			in := manager.EventInput{
				Title:       title,
				Description: description,
				Location:    location,
				Start:       start,
				WholeDay:    wholeDay,
			}
			if end != "" {
				if in.End, err = utils.ParseTime(as.When, end, now); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			event, err := as.Registry.CreateEvent(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created event %d %q at %s\n", event.ID, event.Title, event.Start().In(as.Registry.Location()).Format(time.RFC1123Z))
			free, err := as.Registry.AvailableUsers(event.ID)
			if err != nil {
				return err
			}
			printUsers(cmd, "available", free)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&title, "title", "", "event title")
	addCmd.Flags().StringVar(&at, "at", "", `start time, e.g. "2024-05-01 14:00" or "tomorrow 3pm"`)
	addCmd.Flags().StringVar(&end, "end", "", "end time, defaults to the start")
	addCmd.Flags().StringVar(&description, "description", "", "event description")
	addCmd.Flags().StringVar(&location, "location", "", "event location")
	addCmd.Flags().BoolVar(&wholeDay, "whole-day", false, "the event lasts the whole day")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an event and who is free at its start",
		Args:  cobra.ExactArgs(1),
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			details, err := as.Registry.EventDetails(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			e := details.Event
			fmt.Fprintf(out, "%d %q by %s\n", e.ID, e.Title, details.Organizer)
			fmt.Fprintf(out, "start:    %s\n", e.Start().In(as.Registry.Location()).Format(time.RFC1123Z))
			fmt.Fprintf(out, "end:      %s\n", e.End().In(as.Registry.Location()).Format(time.RFC1123Z))
			if e.Location != "" {
				fmt.Fprintf(out, "location: %s\n", e.Location)
			}
			if e.Description != "" {
				fmt.Fprintf(out, "%s\n", e.Description)
			}
			if details.Editable {
				printUsers(cmd, "available", details.Available)
			}
			return nil
		}),
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an event you created",
		Args:  cobra.ExactArgs(1),
		RunE: withAppState(func(cmd *cobra.Command, args []string, as *utils.AppState) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := as.Registry.DeleteEvent(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted event %d\n", id)
			return nil
		}),
	}

	eventCmd.AddCommand(addCmd, showCmd, rmCmd)
	return eventCmd
}

func printUsers(cmd *cobra.Command, label string, users []manager.UserView) {
	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintf(out, "%s: nobody\n", label)
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	for _, u := range users {
		fmt.Fprintf(out, "  %d %s (%s)\n", u.ID, u.FullName, u.Color)
	}
}
