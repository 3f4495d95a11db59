package main

import (
	"errors"
	"fmt"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/reminder"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/internal/service/ui"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect and manage registered users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		users, err := a.users.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("%-40s %-14s %-7s %-7s", "USER", "STATUS", "NIGHT", "MORNING")))
		for _, u := range users {
			style := ui.ActiveStyle
			if !u.Active() {
				style = ui.MutedStyle
			}
			fmt.Fprintln(out, style.Render(fmt.Sprintf("%-40s %-14s %-7s %-7s", u.ID, u.Status, orDash(u.NightTime), orDash(u.MorningTime))))
		}
		return nil
	},
}

var userScheduleCmd = &cobra.Command{
	Use:   "schedule <user-id>",
	Short: "Print a user's weekly schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		entries, err := a.schedules.GetByUser(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, day := range calendar.All() {
			entry, _ := core.FindDay(entries, day)
			line := fmt.Sprintf("%s  %s", day, render.DisplayItem(entry.GarbageType))
			if entry.HasNote() {
				line += "  (" + entry.Note + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var userSetReminderCmd = &cobra.Command{
	Use:   "set-reminder <user-id> <night|morning> <HH:MM|off>",
	Short: "Set or clear a reminder time",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, ok := core.ParseSlot(args[1])
		if !ok {
			return fmt.Errorf("unknown slot %q, want night or morning", args[1])
		}
		hhmm := args[2]
		if hhmm == "off" {
			hhmm = ""
		} else if _, _, err := reminder.ParseTime(hhmm); err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		if hhmm != "" {
			if snapped := reminder.Snap(hhmm, a.reminders.Interval); snapped != hhmm {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s never fires with a %s interval, using %s\n", hhmm, a.reminders.Interval, snapped)
				hhmm = snapped
			}
		}
		if err := a.users.SetReminderTime(ctx, args[0], slot, hhmm); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("user %s is not registered", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s reminder set to %s\n", args[0], slot, orDash(hhmm))
		return nil
	},
}

var userUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <user-id>",
	Short: "Mark a user as unsubscribed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		if err := a.users.SetStatus(ctx, args[0], core.UserUnsubscribed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s unsubscribed\n", args[0])
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	userCmd.AddCommand(userListCmd, userScheduleCmd, userSetReminderCmd, userUnsubscribeCmd)
	rootCmd.AddCommand(userCmd)
}
