package main

import (
	"fmt"

	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/internal/service/ui"
	"github.com/sandevgo/gomibot/pkg/log"
	"github.com/spf13/cobra"
)

var remindDryRun bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder pass now",
	Long:  `Evaluates every active user's reminder times against the current instant and pushes what is due. With --dry-run nothing is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		if remindDryRun {
			due, err := a.engine(nil, a.reminders.Interval).Due(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(due) == 0 {
				fmt.Fprintln(out, ui.MutedStyle.Render("nothing due"))
				return nil
			}
			fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("%-36s %-8s %-8s %s", "USER", "SLOT", "DAY", "GARBAGE")))
			for _, p := range due {
				fmt.Fprintf(out, "%-36s %-8s %-8s %s\n", p.UserID, p.Slot, p.Day, render.DisplayItem(p.Entry.GarbageType))
			}
			return nil
		}

		router, _ := a.router(ctx)
		mux, _, _, err := a.gateways(ctx, router)
		if err != nil {
			return err
		}

		report, err := a.engine(mux, a.reminders.Interval).Run(ctx)
		if err != nil {
			return err
		}
		log.FromCtx(ctx).Info().
			Int("planned", report.Planned).
			Int("sent", report.Sent).
			Int("failed", report.Failed).
			Msg("reminder pass finished")
		return nil
	},
}

func init() {
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "list due reminders without sending")
	rootCmd.AddCommand(remindCmd)
}
