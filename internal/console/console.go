// Package console runs the agent as a line-oriented chat on a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/models"
)

// LocalChatID is the session key used for the terminal user.
const LocalChatID int64 = 0

const prompt = "> "

const helpText = `Commands:
  /agent /home /trending /explore /watchlist /playlists /history /liked
  /category <name>    /categories
  /sort <views|date|duration>
  /add <id>           toggle a video in the watchlist
  /remove <id>
  /play <id>
  /reset              start over
  /quit
Anything else is sent to the agent.`

type Console struct {
	agent  *agent.Service
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

func New(svc *agent.Service, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{agent: svc, in: in, out: out, logger: logger}
}

// Run reads lines until EOF, /quit or ctx is done. It returns as soon as
// ctx is done, even while waiting for input.
func (c *Console) Run(ctx context.Context) error {
	c.show(c.agent.Open(ctx, LocalChatID))

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprint(c.out, prompt)
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-lines:
			if !ok {
				return c.inputErr(readErr)
			}
			line := strings.TrimSpace(raw)
			if line == "/quit" || line == "/exit" {
				return nil
			}
			if line != "" {
				c.handle(ctx, line)
			}
			fmt.Fprint(c.out, prompt)
		}
	}
}

func (c *Console) inputErr(readErr <-chan error) error {
	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	default:
	}
	return nil
}

func (c *Console) handle(ctx context.Context, line string) {
	if !strings.HasPrefix(line, "/") {
		fmt.Fprintln(c.out, "…")
		c.show(c.agent.Ask(ctx, LocalChatID, line))
		return
	}

	cmd, args, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "start", "reset":
		c.show(c.agent.Open(ctx, LocalChatID))
	case "help":
		fmt.Fprintln(c.out, helpText)
	case "agent", "home", "trending", "explore", "watchlist", "playlists", "history", "liked":
		c.show(c.agent.OpenTab(ctx, LocalChatID, models.ParseTab(cmd)))
	case "categories":
		fmt.Fprintln(c.out, strings.Join(c.agent.Catalog().Categories(), ", "))
	case "category":
		c.show(c.agent.SelectCategory(ctx, LocalChatID, args))
	case "sort":
		c.show(c.agent.SelectSort(ctx, LocalChatID, args))
	case "add":
		video, added, err := c.agent.ToggleWatchlist(ctx, LocalChatID, args)
		if err != nil {
			c.fail(err)
			return
		}
		if added {
			fmt.Fprintf(c.out, "Added to watchlist: %s\n", video.Title)
		} else {
			fmt.Fprintf(c.out, "Removed from watchlist: %s\n", video.Title)
		}
	case "remove":
		c.show(c.agent.RemoveFromWatchlist(ctx, LocalChatID, args))
	case "play":
		video, err := c.agent.Play(ctx, LocalChatID, args)
		if err != nil {
			c.fail(err)
			return
		}
		fmt.Fprintf(c.out, "Now playing: %s (%s)\n", video.Title, video.Duration)
	default:
		fmt.Fprintln(c.out, "Unknown command. Type /help.")
	}
}

func (c *Console) show(view *agent.View, err error) {
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprint(c.out, Render(view))
}

func (c *Console) fail(err error) {
	switch {
	case errors.Is(err, agent.ErrUnknownVideo),
		errors.Is(err, agent.ErrUnknownCategory),
		errors.Is(err, agent.ErrUnknownSort):
		fmt.Fprintf(c.out, "! %v\n", err)
	default:
		c.logger.Error("Request failed", zap.Error(err))
		fmt.Fprintln(c.out, "! something went wrong")
	}
}

// Render formats a view as plain text.
func Render(view *agent.View) string {
	var b strings.Builder
	if view.Title != "" {
		fmt.Fprintf(&b, "== %s ==\n", view.Title)
	}
	if view.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n", view.Subtitle)
	}
	if view.Text != "" {
		fmt.Fprintf(&b, "%s\n", view.Text)
	}

	for i, v := range view.Videos {
		mark := " "
		if view.InWatchlist(v.ID) {
			mark = "✓"
		}
		fmt.Fprintf(&b, "%s %2d. %s\n      %s | %s views | %s | %s | %s | id: %s\n",
			mark, i+1, v.Title, v.ChannelName, v.ViewCount, v.PublishedAt, v.Duration, v.Category, v.ID)
	}

	for _, capability := range view.Capabilities {
		fmt.Fprintf(&b, "%s %s: %s\n", capability.Icon, capability.Title, capability.Description)
	}
	if len(view.Suggestions) > 0 {
		b.WriteString("Try asking:\n")
		for _, q := range view.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", q)
		}
	}
	if len(view.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s (selected: %s)\n", strings.Join(view.Categories, ", "), view.Category)
		fmt.Fprintf(&b, "Sorted by: %s\n", agent.SortLabel(view.SortBy))
	}
	return b.String()
}
