package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleTransport feeds lines from a reader to the bot and prints replies.
// Every line is treated as a message from the same local user.
type ConsoleTransport struct {
	in   io.Reader
	out  io.Writer
	user string
	mu   sync.Mutex
}

// NewConsoleTransport creates a console transport
func NewConsoleTransport(in io.Reader, out io.Writer, user string) *ConsoleTransport {
	return &ConsoleTransport{in: in, out: out, user: user}
}

// Send prints a reply
func (c *ConsoleTransport) Send(ctx context.Context, channelID, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, content)
	return err
}

// React prints the reaction in brackets
func (c *ConsoleTransport) React(ctx context.Context, channelID, messageID, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[%s]\n", emoji)
	return err
}

// Run handles lines until the input ends, ctx is done or the bot is stopped
func (c *ConsoleTransport) Run(ctx context.Context, b *Bot) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	id := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			id++
			msg := Message{
				ChannelID: "console",
				MessageID: fmt.Sprintf("%d", id),
				AuthorID:  c.user,
				Author:    c.user,
				Content:   line,
			}
			if err := b.Handle(ctx, msg, c); err != nil {
				return err
			}
		}
	}
}
