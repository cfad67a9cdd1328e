package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/sc2bot/internal/bot"
	"github.com/ppiankov/sc2bot/internal/model"
	"github.com/ppiankov/sc2bot/internal/pipeline"
	"github.com/ppiankov/sc2bot/internal/styles"
	"github.com/ppiankov/sc2bot/internal/worker"
)

// newBot wires the style store, the wiki pipeline and the lookup cooldown
func newBot(cfg *model.Config, onStop func()) (*bot.Bot, error) {
	store, err := styles.Open(cfg.Styles.Path)
	if err != nil {
		return nil, fmt.Errorf("load styles: %w", err)
	}
	log.Info().Str("path", cfg.Styles.Path).Int("styles", len(store.List())).Msg("styles loaded")

	return bot.New(store, pipeline.NewPipeline(cfg), bot.Options{
		Prefix:   cfg.Discord.Prefix,
		Cooldown: worker.NewCooldown(cfg.Bot.Cooldown),
		OnStop:   onStop,
	}), nil
}
