package debug

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartRuntimeLogger logs goroutine, stack, heap and resident memory figures
// every interval until ctx ends.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		rssErrLogged := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := residentSet()
			if err != nil && !rssErrLogged {
				logger.Warn("runtime stats: resident set unavailable", "error", err)
				rssErrLogged = true
			}
			logger.Info("runtime stats",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
				slog.Uint64("rss", rss),
			)
		}
	}()
}
