package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartRuntimeLogger_LogsUntilCancelled(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewJSONHandler(&out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartRuntimeLogger(ctx, 5*time.Millisecond, logger)

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), `"runtime stats"`) {
		if time.Now().After(deadline) {
			t.Fatalf("no runtime stats logged: %q", out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(20 * time.Millisecond)
	n := strings.Count(out.String(), `"runtime stats"`)
	time.Sleep(30 * time.Millisecond)
	if m := strings.Count(out.String(), `"runtime stats"`); m != n {
		t.Fatalf("logger kept running after cancel: %d -> %d", n, m)
	}
}
