package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/interpreter"
	"github.com/xaenox/tube-agent/internal/storage"
)

func run(t *testing.T, input string) string {
	t.Helper()
	c := catalog.Default()
	svc := agent.NewService(storage.NewMemoryStorage(), c, interpreter.NewKeywordInterpreter(c, 3), agent.Latency{}, zap.NewNop())

	var out bytes.Buffer
	con := New(svc, strings.NewReader(input), &out, zap.NewNop())
	require.NoError(t, con.Run(context.Background()))
	return out.String()
}

func TestConsoleGreetsAndAnswers(t *testing.T) {
	out := run(t, "find cooking videos\n")

	assert.Contains(t, out, interpreter.Greeting())
	assert.Contains(t, out, "Try asking:")
	assert.Contains(t, out, "Here are some great Cooking videos for you:")
	assert.Contains(t, out, "Perfect Homemade Pizza")
}

func TestConsoleWatchlist(t *testing.T) {
	id := catalog.Default().Videos()[0].ID
	out := run(t, "/add "+id+"\n/watchlist\n/remove "+id+"\n")

	assert.Contains(t, out, "Added to watchlist")
	assert.Contains(t, out, "1 video")
	assert.Contains(t, out, "✓  1.")
	assert.Contains(t, out, "Your watchlist is empty")
}

func TestConsoleGridAndErrors(t *testing.T) {
	out := run(t, "/explore\n/category gaming\n/sort bogus\n/play nope\n/nope\n")

	assert.Contains(t, out, "== 🧭 Explore ==")
	assert.Contains(t, out, "Gaming · Most Views")
	assert.Contains(t, out, "unknown sort order")
	assert.Contains(t, out, "unknown video")
	assert.Contains(t, out, "Unknown command")
}

func TestConsoleStopsOnQuit(t *testing.T) {
	out := run(t, "/quit\ntrending\n")
	assert.NotContains(t, out, "trending right now")
}

func TestConsoleIgnoresBlankLines(t *testing.T) {
	out := run(t, "\n   \n")
	assert.NotContains(t, out, "I can help you find videos")
}

func TestConsoleStopsWhileWaitingForInput(t *testing.T) {
	c := catalog.Default()
	svc := agent.NewService(storage.NewMemoryStorage(), c, interpreter.NewKeywordInterpreter(c, 3), agent.Latency{}, zap.NewNop())

	in, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	con := New(svc, in, &out, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- con.Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
