package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/sc2bot/internal/pipeline"
	"github.com/ppiankov/sc2bot/internal/styles"
)

const aboutText = "This bot provides a way to randomize Starcraft 2 play styles, according to a user-defined list of " +
	"styles and weights (probabilities). It can also look up units and abilities on Liquipedia. " +
	"Type '!help' for a list of commands."

const (
	weightArgsHelp = "style: name of play style\nweight: positive integer specifying weight of the style"
	editArgsHelp   = "style: name of existing play style\nweight: positive integer specifying weight of the style"
)

// LookupReaction marks a message whose wiki lookup is in progress
const LookupReaction = "🔍"

// Command is one chat command
type Command struct {
	Name     string
	Aliases  []string
	Usage    string // Arguments shown after the command name
	Help     string
	ArgsHelp string // Shown in the error block when arguments are invalid
	MinArgs  int
	Run      func(ctx context.Context, c *Call) (string, error)
}

// Call carries one invocation of a command
type Call struct {
	Bot       *Bot
	Message   Message
	Args      []string
	Responder Responder
	stop      bool
}

// UsageError is replied as the command's error block with Detail as the description
type UsageError struct {
	Detail string
}

func (e *UsageError) Error() string {
	return e.Detail
}

func builtinCommands() []*Command {
	return []*Command{
		{
			Name: "about",
			Help: "Provides info on what the bot does",
			Run: func(ctx context.Context, c *Call) (string, error) {
				return strings.ReplaceAll(aboutText, "'!help'", "'"+c.Bot.prefix+"help'"), nil
			},
		},
		{
			Name:     "add",
			Usage:    "<style> <weight>",
			Help:     "Adds a new play style along with its weight to the list",
			ArgsHelp: weightArgsHelp,
			MinArgs:  2,
			Run:      runAdd,
		},
		{
			Name:     "delete",
			Usage:    "<style>",
			Help:     "Deletes a play style from the list",
			ArgsHelp: "style: name of play style in !list\n",
			MinArgs:  1,
			Run:      runDelete,
		},
		{
			Name:     "edit",
			Usage:    "<style> <weight>",
			Help:     "Edits a current play style's weight",
			ArgsHelp: editArgsHelp,
			MinArgs:  2,
			Run:      runEdit,
		},
		{
			Name: "list",
			Help: "Lists all play styles, their respective weights, and probabilities",
			Run:  runList,
		},
		{
			Name: "roll",
			Help: "Rolls a new play style",
			Run:  runRoll,
		},
		{
			Name:     "scale",
			Usage:    "<factor>",
			Help:     "Scales the weights of the styles in the list",
			ArgsHelp: "factor: number greater than zero to multiply every weight by",
			MinArgs:  1,
			Run:      runScale,
		},
		{
			Name:     "unit",
			Aliases:  []string{"lookup"},
			Usage:    "<name>",
			Help:     "Looks up a unit or ability on Liquipedia",
			ArgsHelp: "name: unit, building or ability, e.g. siege tank",
			MinArgs:  1,
			Run:      runLookup,
		},
		{
			Name: "help",
			Help: "Shows this message",
			Run:  runHelp,
		},
		{
			Name: "stop",
			Help: "Stops the bot",
			Run: func(ctx context.Context, c *Call) (string, error) {
				c.stop = true
				return "Bot logging off...", nil
			},
		},
	}
}

func runAdd(ctx context.Context, c *Call) (string, error) {
	style := c.Args[0]
	weight, err := strconv.Atoi(c.Args[1])
	if err != nil {
		return "", &UsageError{Detail: weightArgsHelp}
	}

	if err := c.Bot.store.Add(style, weight); err != nil {
		if errors.Is(err, styles.ErrInvalidWeight) {
			return "", &UsageError{Detail: weightArgsHelp}
		}
		return "", err
	}
	return fmt.Sprintf("Added **%s** with weight **%d**", style, weight), nil
}

func runDelete(ctx context.Context, c *Call) (string, error) {
	style := c.Args[0]
	weight, err := c.Bot.store.Delete(style)
	if err != nil {
		if errors.Is(err, styles.ErrUnknownStyle) {
			return "", &UsageError{Detail: "style: name of play style in " + c.Bot.prefix + "list\n"}
		}
		return "", err
	}
	return fmt.Sprintf("Deleted **%s** with weight **%d**", style, weight), nil
}

func runEdit(ctx context.Context, c *Call) (string, error) {
	style := c.Args[0]
	weight, err := strconv.Atoi(c.Args[1])
	if err != nil {
		return "", &UsageError{Detail: editArgsHelp}
	}

	old, err := c.Bot.store.Edit(style, weight)
	switch {
	case errors.Is(err, styles.ErrUnknownStyle):
		return "", &UsageError{Detail: "'style' needs to be an existing entry in " + c.Bot.prefix + "list"}
	case errors.Is(err, styles.ErrInvalidWeight):
		return "", &UsageError{Detail: editArgsHelp}
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("Edited **%s**: weight %d -> **%d**", style, old, weight), nil
}

func runList(ctx context.Context, c *Call) (string, error) {
	list := c.Bot.store.List()
	total := c.Bot.store.Total()

	lines := make([]string, 0, len(list)+1)
	lines = append(lines, "**style, weight, probability**")
	for _, st := range list {
		probability := 0.0
		if total > 0 {
			probability = float64(st.Weight) / float64(total)
		}
		lines = append(lines, fmt.Sprintf("%s, %d, %.2f", st.Name, st.Weight, probability))
	}
	return strings.Join(lines, "\n"), nil
}

func runRoll(ctx context.Context, c *Call) (string, error) {
	style, err := c.Bot.store.Roll()
	if errors.Is(err, styles.ErrEmpty) {
		return "", &UsageError{Detail: "the style list is empty, add one with " + c.Bot.prefix + "add <style> <weight>"}
	}
	return style, err
}

func runScale(ctx context.Context, c *Call) (string, error) {
	factor, err := strconv.ParseFloat(c.Args[0], 64)
	if err != nil {
		return "", &UsageError{Detail: "factor: number greater than zero to multiply every weight by"}
	}
	if err := c.Bot.store.Scale(factor); err != nil {
		if errors.Is(err, styles.ErrInvalidFactor) {
			return "", &UsageError{Detail: "factor: number greater than zero to multiply every weight by"}
		}
		return "", err
	}
	return fmt.Sprintf("Scaled weights by **%s**", strconv.FormatFloat(factor, 'f', -1, 64)), nil
}

func runLookup(ctx context.Context, c *Call) (string, error) {
	term := strings.Join(c.Args, " ")

	if c.Bot.lookuper == nil {
		return "Wiki lookup is not configured", nil
	}
	if c.Bot.cooldown != nil && !c.Bot.cooldown.Allow(c.Message.AuthorID) {
		return fmt.Sprintf("Slow down, %s: one lookup at a time", c.Message.Author), nil
	}

	if err := c.Responder.React(ctx, c.Message.ChannelID, c.Message.MessageID, LookupReaction); err != nil {
		log.Debug().Err(err).Msg("add reaction")
	}

	result, err := c.Bot.lookuper.Lookup(ctx, term)
	switch {
	case errors.Is(err, pipeline.ErrNotFound):
		return fmt.Sprintf("No article found for **%s**", term), nil
	case err != nil:
		log.Error().Err(err).Str("term", term).Msg("lookup failed")
		return fmt.Sprintf("Lookup failed for **%s**, try again later", term), nil
	}
	return result.Text(), nil
}

func runHelp(ctx context.Context, c *Call) (string, error) {
	var b strings.Builder
	b.WriteString("```\n")
	for _, cmd := range c.Bot.order {
		usage := c.Bot.prefix + cmd.Name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}
		fmt.Fprintf(&b, "%-26s %s\n", usage, cmd.Help)
	}
	b.WriteString("```")
	return b.String(), nil
}

// usageError renders the command's error block with its argument help
func (b *Bot) usageError(cmd *Command) string {
	return ErrorMessage(b.commandUsage(cmd), cmd.ArgsHelp)
}

func (b *Bot) replyForError(cmd *Command, err error) string {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ErrorMessage(b.commandUsage(cmd), usageErr.Detail)
	}
	return ErrorMessage(b.commandUsage(cmd), err.Error())
}

func (b *Bot) commandUsage(cmd *Command) string {
	usage := b.prefix + cmd.Name
	if cmd.Usage != "" {
		usage += " " + cmd.Usage
	}
	return usage
}
