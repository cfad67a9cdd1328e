package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/sc2bot/internal/model"
	"github.com/ppiankov/sc2bot/internal/styles"
	"github.com/ppiankov/sc2bot/internal/worker"
)

// Message is an incoming chat message, independent of the transport
type Message struct {
	ChannelID string
	MessageID string
	AuthorID  string
	Author    string
	Content   string
}

// Responder delivers replies back to the chat a message came from
type Responder interface {
	Send(ctx context.Context, channelID, content string) error
	React(ctx context.Context, channelID, messageID, emoji string) error
}

// Lookuper resolves a search term to a rendered infobox
type Lookuper interface {
	Lookup(ctx context.Context, term string) (*model.ExtractionResult, error)
}

// Options configures a Bot
type Options struct {
	Prefix   string
	Cooldown *worker.Limiter // Per-user limit on wiki lookups; nil disables it
	OnStop   func()          // Called after the !stop reply is sent
}

// Bot parses prefixed commands and dispatches them
type Bot struct {
	prefix   string
	store    *styles.Store
	lookuper Lookuper
	cooldown *worker.Limiter
	onStop   func()
	stopOnce sync.Once
	commands map[string]*Command
	order    []*Command
}

// New creates a bot over the style store and the wiki lookup
func New(store *styles.Store, lookuper Lookuper, opts Options) *Bot {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "!"
	}

	b := &Bot{
		prefix:   prefix,
		store:    store,
		lookuper: lookuper,
		cooldown: opts.Cooldown,
		onStop:   opts.OnStop,
		commands: make(map[string]*Command),
	}
	for _, cmd := range builtinCommands() {
		b.register(cmd)
	}
	return b
}

func (b *Bot) register(cmd *Command) {
	b.order = append(b.order, cmd)
	b.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		b.commands[alias] = cmd
	}
}

// Handle runs the command in msg, if any, and sends its reply.
// Only delivery failures are returned; command errors become chat replies.
func (b *Bot) Handle(ctx context.Context, msg Message, r Responder) error {
	if !strings.HasPrefix(msg.Content, b.prefix) {
		return nil
	}

	args, err := shellwords.Parse(strings.TrimPrefix(msg.Content, b.prefix))
	if err != nil || len(args) == 0 {
		log.Debug().Err(err).Str("content", msg.Content).Msg("ignoring unparsable command")
		return nil
	}

	name := args[0]
	cmd, ok := b.commands[name]
	if !ok {
		log.Debug().Str("command", name).Str("user", msg.Author).Msg("unknown command")
		return nil
	}

	log.Info().Str("command", cmd.Name).Str("user", msg.Author).Strs("args", args[1:]).Msg("command")

	call := &Call{
		Bot:       b,
		Message:   msg,
		Args:      args[1:],
		Responder: r,
	}

	var reply string
	if len(call.Args) < cmd.MinArgs {
		reply = b.usageError(cmd)
	} else {
		reply, err = cmd.Run(ctx, call)
		if err != nil {
			log.Warn().Err(err).Str("command", cmd.Name).Msg("command failed")
			reply = b.replyForError(cmd, err)
		}
	}

	if reply != "" {
		for _, chunk := range SplitMessage(reply, MaxMessageLength) {
			if err := r.Send(ctx, msg.ChannelID, chunk); err != nil {
				return fmt.Errorf("send reply: %w", err)
			}
		}
	}

	if call.stop {
		b.stopOnce.Do(func() {
			if b.onStop != nil {
				b.onStop()
			}
		})
	}
	return nil
}

// Commands returns the registered commands in help order
func (b *Bot) Commands() []*Command {
	return b.order
}

// Prefix returns the command prefix
func (b *Bot) Prefix() string {
	return b.prefix
}
