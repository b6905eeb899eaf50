package observability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"

	"github.com/benz9527/xslab/lib/slab"
)

func TestConsoleMetricsExporterWithPoolStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := NewConsoleMetricsExporter(
		100*time.Millisecond,
		time.Second,
		stdoutmetric.WithWriter(io.Discard),
	)
	require.NoError(t, err)

	InitAppStats(ctx, "slab")

	pool := slab.NewPool[uint64](slab.WithPoolSlotsPerChunk(4))
	ObservePoolStats("pool-under-test", pool)

	slots := make([]*slab.Slot[uint64], 0, 10)
	for i := 0; i < 10; i++ {
		slots = append(slots, pool.Allocate(1))
	}
	for _, s := range slots {
		pool.Deallocate(s)
	}
	time.Sleep(300 * time.Millisecond) // let the periodic reader collect once
	pool.Release()

	require.NoError(t, CombineShutdown(shutdown, nil)(context.Background()))
}

func TestCombineShutdown_CollectsFailures(t *testing.T) {
	boom := func(ctx context.Context) error {
		return context.Canceled
	}
	fine := func(ctx context.Context) error {
		return nil
	}
	err := CombineShutdown(fine, boom, nil, boom)(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
