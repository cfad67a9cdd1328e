package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sc2bot/internal/bot"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands",
	Long: `Run connects to Discord with the configured bot token and answers
prefixed commands in every channel the bot can read, until !stop or Ctrl-C.

Example:
  SC2BOT_DISCORD_TOKEN=... sc2bot run
  sc2bot run --prefix ? --styles /var/lib/sc2bot/styles.json`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addBotFlags(runCmd)
}

// addBotFlags adds the flags shared by transports. They are bound to config
// keys when the command runs, since viper keeps one flag per key.
func addBotFlags(cmd *cobra.Command) {
	cmd.Flags().String("prefix", "!", "command prefix")
	cmd.Flags().String("styles", "styles.json", "play style list file")
	cmd.Flags().Duration("cooldown", 0, "minimum time between wiki lookups per user (default from config)")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for key, flag := range map[string]string{
			"discord.prefix": "prefix",
			"styles.path":    "styles",
			"bot.cooldown":   "cooldown",
		} {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
		return nil
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Discord.Token == "" {
		return errors.New("discord token not set: use SC2BOT_DISCORD_TOKEN or DISCORD_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBot(cfg, stop)
	if err != nil {
		return err
	}

	transport, err := bot.NewDiscordTransport(cfg.Discord.Token, cfg.Discord.Guild)
	if err != nil {
		return err
	}

	log.Info().Str("prefix", b.Prefix()).Msg("starting discord bot")
	return transport.Run(ctx, b)
}
