package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sandevgo/gomibot/internal/service/reminder"
	"github.com/sandevgo/gomibot/internal/transport"
	"github.com/sandevgo/gomibot/internal/transport/cli"
	"github.com/sandevgo/gomibot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long: `Opens a console chat as the user cli:<name>. Type keywords such as 一覧 or ヘルプ.
/postback <data> sends button data, /follow and /unfollow simulate adding and blocking the bot.
Reminders due for the console user are printed while chatting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		router, janitor := a.router(ctx)
		rl, err := cli.NewReadLine(cli.NewConsole(router, chatUser), a.cfg)
		if err != nil {
			return err
		}

		services := []srv.Service{janitor}
		if a.reminders.Enabled {
			services = append(services, reminder.NewScheduler(a.engine(transport.NewMux(rl), a.reminders.Interval), a.loc))
		}

		bgCtx, cancel := context.WithCancel(ctx)
		srv.StartServices(bgCtx, services)

		err = rl.Start(ctx)
		cancel()
		srv.ShutdownServices(bgCtx, services)
		_ = rl.Shutdown(context.WithoutCancel(ctx))
		return err
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", cli.DefaultUser, "local user name")
	rootCmd.AddCommand(chatCmd)
}
