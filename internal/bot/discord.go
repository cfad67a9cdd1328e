package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// DiscordTransport connects the bot to a Discord gateway session
type DiscordTransport struct {
	session *discordgo.Session
	guild   string
}

// NewDiscordTransport creates a session for the bot token. guild is only used to
// report which configured server the bot joined.
func NewDiscordTransport(token, guild string) (*DiscordTransport, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &DiscordTransport{session: session, guild: guild}, nil
}

// Send posts a message to a channel
func (d *DiscordTransport) Send(ctx context.Context, channelID, content string) error {
	_, err := d.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

// React adds a unicode emoji reaction to a message
func (d *DiscordTransport) React(ctx context.Context, channelID, messageID, emoji string) error {
	return d.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

// Run opens the gateway and handles messages until ctx is done
func (d *DiscordTransport) Run(ctx context.Context, b *Bot) error {
	d.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("connected to discord")
	})
	d.session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if d.guild == "" || g.Name == d.guild {
			log.Info().Str("guild", g.Name).Msg("joined guild")
		}
	})
	d.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
			return
		}
		msg := Message{
			ChannelID: m.ChannelID,
			MessageID: m.ID,
			AuthorID:  m.Author.ID,
			Author:    m.Author.Username,
			Content:   m.Content,
		}
		if err := b.Handle(ctx, msg, d); err != nil {
			log.Error().Err(err).Str("channel", m.ChannelID).Msg("handle message")
		}
	})

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	<-ctx.Done()

	log.Info().Msg("closing discord session")
	if err := d.session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	return nil
}
