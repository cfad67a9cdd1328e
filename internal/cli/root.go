package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sc2bot/internal/model"
)

// Version is overridden at build time with -ldflags "-X github.com/ppiankov/sc2bot/internal/cli.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sc2bot",
	Short: "sc2bot - StarCraft II play style roller and Liquipedia lookup bot",
	Long: `sc2bot is a Discord bot for StarCraft II players.

It keeps a user-editable list of play styles with weights and rolls one at
random, and it looks up units and abilities on Liquipedia, replying with a
compact summary of the infobox (cost, attributes, attack, defense).

Run it against Discord with 'sc2bot run', or try the same commands locally
with 'sc2bot console'.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sc2bot v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sc2bot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn().Err(err).Msg("cannot find home directory")
		} else {
			viper.AddConfigPath(home + "/.sc2bot")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindConfig(model.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	} else if cfgFile != "" {
		log.Warn().Err(err).Str("file", cfgFile).Msg("cannot read config file")
	}
}

// bindConfig registers every setting with viper so SC2BOT_* variables reach
// Unmarshal, e.g. SC2BOT_WIKI_TIMEOUT=30s. The environment names used by
// earlier deployments of the bot are accepted as fallbacks.
func bindConfig(defaults *model.Config) {
	viper.SetEnvPrefix("SC2BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	settings := map[string]any{
		"discord.token":            defaults.Discord.Token,
		"discord.guild":            defaults.Discord.Guild,
		"discord.prefix":           defaults.Discord.Prefix,
		"styles.path":              defaults.Styles.Path,
		"wiki.base_url":            defaults.Wiki.BaseURL,
		"wiki.user_agent":          defaults.Wiki.UserAgent,
		"wiki.timeout":             defaults.Wiki.Timeout,
		"wiki.max_body_bytes":      defaults.Wiki.MaxBodyBytes,
		"wiki.requests_per_second": defaults.Wiki.RequestsPerSecond,
		"wiki.burst":               defaults.Wiki.Burst,
		"wiki.respect_robots":      defaults.Wiki.RespectRobots,
		"wiki.http_proxy":          defaults.Wiki.HTTPProxy,
		"wiki.https_proxy":         defaults.Wiki.HTTPSProxy,
		"icons.minerals":           defaults.Icons.Minerals,
		"icons.gas":                defaults.Icons.Gas,
		"icons.build_time":         defaults.Icons.BuildTime,
		"icons.supply":             defaults.Icons.Supply,
		"icons.life":               defaults.Icons.Life,
		"icons.shield":             defaults.Icons.Shield,
		"icons.armor":              defaults.Icons.Armor,
		"icons.separator":          defaults.Icons.Separator,
		"bot.cooldown":             defaults.Bot.Cooldown,
	}
	for key, value := range settings {
		viper.SetDefault(key, value)
	}

	_ = viper.BindEnv("discord.token", "SC2BOT_DISCORD_TOKEN", "DISCORD_TOKEN")
	_ = viper.BindEnv("discord.guild", "SC2BOT_DISCORD_GUILD", "DISCORD_GUILD")
	_ = viper.BindEnv("styles.path", "SC2BOT_STYLES_PATH", "LIST_PATH")
}

// loadConfig merges defaults, config file, environment and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
