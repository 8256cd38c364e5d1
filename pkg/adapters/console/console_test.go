package console_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mazerunner/pkg/adapters/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_TypedLinesBecomeMentions(t *testing.T) {
	pr, pw := io.Pipe()
	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
	c := console.New(pr, io.Discard, console.WithClock(clock))
	ctx := context.Background()

	res, err := c.FetchRecent(ctx, 10)
	require.NoError(t, err)
	assert.True(t, res.NoData)

	_, err = io.WriteString(pw, "left\n\n  right  \nleft again\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := c.FetchRecent(ctx, 10)
		return err == nil && len(res.Items) == 3
	}, time.Second, 10*time.Millisecond)

	res, err = c.FetchRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "left again", res.Items[0].Text)
	assert.Equal(t, "right", res.Items[1].Text)
	assert.True(t, res.Items[0].CreatedAt.After(res.Items[1].CreatedAt))
	_ = pw.Close()
}

func TestConsole_PublishRenders(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out, console.WithRenderer(func(s string) (string, error) {
		return strings.ToUpper(s) + "\n\n", nil
	}))

	require.NoError(t, c.Publish(context.Background(), "[0] hello"))
	assert.Equal(t, "[0] HELLO\n", out.String())
	assert.False(t, console.IsTerminal(&out))
}
