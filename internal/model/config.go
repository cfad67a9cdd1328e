package model

import "time"

// Config holds all runtime settings for the bot
type Config struct {
	Discord DiscordConfig `yaml:"discord" mapstructure:"discord"`
	Styles  StylesConfig  `yaml:"styles" mapstructure:"styles"`
	Wiki    WikiConfig    `yaml:"wiki" mapstructure:"wiki"`
	Icons   IconConfig    `yaml:"icons" mapstructure:"icons"`
	Bot     BotConfig     `yaml:"bot" mapstructure:"bot"`
}

// DiscordConfig configures the Discord transport
type DiscordConfig struct {
	Token  string `yaml:"token,omitempty" mapstructure:"token"` // Prefer SC2BOT_DISCORD_TOKEN or DISCORD_TOKEN
	Guild  string `yaml:"guild" mapstructure:"guild"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// StylesConfig configures persistence of the play style list
type StylesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// WikiConfig configures page retrieval from the wiki
type WikiConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// IconConfig holds the emoji prefixed to extracted cost and defense values
type IconConfig struct {
	Minerals  string `yaml:"minerals" mapstructure:"minerals"`
	Gas       string `yaml:"gas" mapstructure:"gas"`
	BuildTime string `yaml:"build_time" mapstructure:"build_time"`
	Supply    string `yaml:"supply" mapstructure:"supply"`
	Life      string `yaml:"life" mapstructure:"life"`
	Shield    string `yaml:"shield" mapstructure:"shield"`
	Armor     string `yaml:"armor" mapstructure:"armor"`
	Separator string `yaml:"separator" mapstructure:"separator"`
}

// BotConfig configures command handling
type BotConfig struct {
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"` // Minimum gap between lookups per user
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			Prefix: "!",
		},
		Styles: StylesConfig{
			Path: "styles.json",
		},
		Wiki: WikiConfig{
			BaseURL:           "https://liquipedia.net/starcraft2/",
			UserAgent:         "sc2bot/0.1 (+https://github.com/ppiankov/sc2bot)",
			Timeout:           15 * time.Second,
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 0.5,
			Burst:             1,
			RespectRobots:     true,
		},
		Icons: DefaultIcons(),
		Bot: BotConfig{
			Cooldown: 3 * time.Second,
		},
	}
}

// DefaultIcons returns the default emoji short codes
func DefaultIcons() IconConfig {
	return IconConfig{
		Minerals:  ":minerals:",
		Gas:       ":vespene:",
		BuildTime: ":buildtime:",
		Supply:    ":supply:",
		Life:      ":life:",
		Shield:    ":shield:",
		Armor:     ":armor:",
		Separator: " | ",
	}
}
