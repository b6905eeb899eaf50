package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xslab/lib/slab"
)

var (
	once sync.Once
)

func scopeName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xslab")
	if len(strings.TrimSpace(name)) > 0 {
		builder.Write([]byte("/"))
		builder.WriteString(name)
	} else {
		builder.Write([]byte("/"))
		builder.WriteString("default")
	}
	return builder.String()
}

type appStats struct {
	ctx              context.Context
	shutdownCallback func(ctx context.Context) error
	goroutines       metric.Int64ObservableUpDownCounter
	processes        metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		select {
		case <-stats.ctx.Done():
			_ = stats.shutdownCallback(context.Background())
		}
	}()
}

func InitAppStats(ctx context.Context, name string) {
	once.Do(func() {
		name = scopeName(name)
		stats := &appStats{
			ctx: ctx,
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](otel.Meter(
				name,
				metric.WithInstrumentationVersion(otelruntime.Version()),
			).Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					gNum := runtime.NumGoroutine()
					ob.Observe(int64(gNum))
					return nil
				}),
			),
			),
			processes: lo.Must[metric.Int64ObservableUpDownCounter](otel.Meter(
				name,
				metric.WithInstrumentationVersion(otelruntime.Version()),
			).Int64ObservableUpDownCounter(
				"app.core.processes",
				metric.WithDescription(`The application processes' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					procs := runtime.GOMAXPROCS(0)
					ob.Observe(int64(procs))
					return nil
				}),
			),
			),
		}
		_ = otelruntime.Start()
		stats.waitForShutdown()
	})
}

// ObservePoolStats registers gauges and counters over a pool's stats
// snapshot. Snapshot reads are atomic on the pool side, so the otel
// reader may poll from outside the pool's owner goroutine.
func ObservePoolStats[T any](name string, pool *slab.Pool[T]) {
	name = scopeName(name)
	meter := otel.Meter(name)
	gauge := func(instrument, desc string, read func(slab.PoolStats) int64) {
		lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			instrument,
			metric.WithDescription(desc),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(read(pool.Stats()))
				return nil
			}),
		))
	}
	counter := func(instrument, desc string, read func(slab.PoolStats) int64) {
		lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
			instrument,
			metric.WithDescription(desc),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(read(pool.Stats()))
				return nil
			}),
		))
	}
	gauge("slab.pool.slots.live", `The slots currently holding live payloads.`,
		func(st slab.PoolStats) int64 { return st.LiveSlots })
	gauge("slab.pool.slots.free", `The slots currently threaded on the free list.`,
		func(st slab.PoolStats) int64 { return st.FreeSlots })
	gauge("slab.pool.chunks", `The chunks linked into the pool's ring.`,
		func(st slab.PoolStats) int64 { return st.Chunks })
	counter("slab.pool.allocs", `Cumulative slot allocations.`,
		func(st slab.PoolStats) int64 { return st.Allocs })
	counter("slab.pool.frees", `Cumulative slot deallocations.`,
		func(st slab.PoolStats) int64 { return st.Frees })
	counter("slab.pool.grows", `Cumulative chunk growth steps.`,
		func(st slab.PoolStats) int64 { return st.Grows })
}
