// Package console plays the game in a terminal: posts are printed, and every
// line typed on the input counts as a mention.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"golang.org/x/term"
)

// Renderer transforms a post before it is printed (e.g. markdown to ANSI).
type Renderer func(string) (string, error)

// Console implements ports.FeedPoller and ports.Publisher on a reader/writer pair.
type Console struct {
	out      io.Writer
	renderer Renderer
	clock    func() time.Time

	mu       sync.Mutex
	mentions []domain.FeedItem
	readErr  error
	started  bool
	outMu    sync.Mutex
}

// Option configures the Console.
type Option func(*Console)

// WithRenderer renders posts before printing them.
func WithRenderer(r Renderer) Option {
	return func(c *Console) {
		c.renderer = r
	}
}

// WithClock sets the timestamp source for typed mentions.
func WithClock(clock func() time.Time) Option {
	return func(c *Console) {
		c.clock = clock
	}
}

// New creates a console reading mentions from in and printing posts to out.
// Nil streams default to stdin and stdout.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	c := &Console{out: out, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	go c.pump(in)
	return c
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *Console) pump(in io.Reader) {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		n++
		c.mu.Lock()
		c.started = true
		c.mentions = append(c.mentions, domain.FeedItem{
			ID:        fmt.Sprintf("stdin-%d", n),
			Text:      text,
			CreatedAt: c.clock(),
		})
		c.mu.Unlock()
	}
	c.mu.Lock()
	c.readErr = scanner.Err()
	c.mu.Unlock()
}

// FetchRecent returns up to max of the newest typed lines, newest first.
// Before the first line it answers with no data.
func (c *Console) FetchRecent(ctx context.Context, max int) (domain.FeedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readErr != nil {
		return domain.FeedResult{}, fmt.Errorf("console: read input: %w", c.readErr)
	}
	if !c.started {
		return domain.NoFeedData(), nil
	}

	n := min(max, len(c.mentions))
	items := make([]domain.FeedItem, 0, n)
	for i := len(c.mentions) - 1; i >= 0 && len(items) < n; i-- {
		items = append(items, c.mentions[i])
	}
	return domain.FeedItems(items...), nil
}

// Publish prints text, rendered when a renderer is configured.
func (c *Console) Publish(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	output := text
	if c.renderer != nil {
		if rendered, err := c.renderer(text); err == nil {
			output = rendered
		}
	}

	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := fmt.Fprintln(c.out, strings.TrimRight(output, "\n")); err != nil {
		return fmt.Errorf("console: write post: %w", err)
	}
	return nil
}
