package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnSolveStart(ctx, 3)
	h.OnSolveComplete(ctx, 2, time.Millisecond, nil)
	h.OnSolveComplete(ctx, 0, time.Millisecond, errors.New("cycle"))
	h.OnCacheHit(ctx, "solve")
	h.OnResponse(ctx, "POST", "/v1/solve", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"solve started", "components=3",
		"solve complete", "passes=2",
		"solve failed", "err=cycle",
		"cache hit", "type=solve",
		"status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	NewLogHooks(logger).OnCacheMiss(context.Background(), "artifact")
	if buf.Len() != 0 {
		t.Errorf("debug event logged at info level: %s", buf.String())
	}
}
