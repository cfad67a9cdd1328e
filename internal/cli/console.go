package cli

import (
	"context"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sc2bot/internal/bot"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Serve commands from stdin",
	Long: `Console reads one message per line from stdin and prints the bot's
replies to stdout. It uses the same commands, style list and wiki lookup as
the Discord bot.

Example:
  sc2bot console
  echo '!unit siege tank' | sc2bot console`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	addBotFlags(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBot(cfg, stop)
	if err != nil {
		return err
	}

	name := "console"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}

	return bot.NewConsoleTransport(cmd.InOrStdin(), cmd.OutOrStdout(), name).Run(ctx, b)
}
