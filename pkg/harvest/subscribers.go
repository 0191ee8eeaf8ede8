package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/finchapm/finch/pkg/event_bus"
	"github.com/finchapm/finch/pkg/transaction/model"
	"github.com/finchapm/finch/pkg/write_buffer"
	"go.uber.org/zap"
)

// ArchiveBuffers are the per-record write buffers of the trace archive.
type ArchiveBuffers struct {
	Events      write_buffer.ArchiveWriteBuffer[model.TransactionEvent]
	Traces      write_buffer.ArchiveWriteBuffer[model.TransactionTrace]
	ErrorTraces write_buffer.ArchiveWriteBuffer[model.ErrorTrace]
	ErrorEvents write_buffer.ArchiveWriteBuffer[model.ErrorEvent]
}

// SubscribeArchive attaches the archive write buffers to the record topics.
// Error traces and error events land in the same index, so both topics feed
// the error buffers.
func SubscribeArchive(bus EventBus.Bus, buffers ArchiveBuffers, logger *zap.Logger) error {
	eventBus := event_bus.NewFinchEventBus[model.TransactionEvent, model.TransactionEvent](bus, logger)
	err := eventBus.Subscribe(TransactionEventTopic, func(event model.TransactionEvent) error {
		buffers.Events.WriteToBuffer([]model.TransactionEvent{event})
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("failed to subscribe archive to transaction events: %w", err)
	}

	traceBus := event_bus.NewFinchEventBus[model.TransactionTrace, model.TransactionTrace](bus, logger)
	err = traceBus.Subscribe(TransactionTraceTopic, func(trace model.TransactionTrace) error {
		buffers.Traces.WriteToBuffer([]model.TransactionTrace{trace})
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("failed to subscribe archive to transaction traces: %w", err)
	}

	errTraceBus := event_bus.NewFinchEventBus[model.ErrorTrace, model.ErrorTrace](bus, logger)
	err = errTraceBus.Subscribe(ErrorTraceTopic, func(errTrace model.ErrorTrace) error {
		buffers.ErrorTraces.WriteToBuffer([]model.ErrorTrace{errTrace})
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("failed to subscribe archive to error traces: %w", err)
	}

	errEventBus := event_bus.NewFinchEventBus[model.ErrorEvent, model.ErrorEvent](bus, logger)
	err = errEventBus.Subscribe(ErrorEventTopic, func(errEvent model.ErrorEvent) error {
		buffers.ErrorEvents.WriteToBuffer([]model.ErrorEvent{errEvent})
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("failed to subscribe archive to error events: %w", err)
	}
	return nil
}

// SubscribeSpanExporter attaches the OTLP exporter to the span topic and
// starts the periodic flush. The returned cleanup stops the flush loop.
func SubscribeSpanExporter(
	bus EventBus.Bus,
	exporter *SpanExporter,
	flushInterval time.Duration,
	logger *zap.Logger,
) (func(), error) {
	spanBus := event_bus.NewFinchEventBus[model.SpanEvent, model.SpanEvent](bus, logger)
	err := spanBus.Subscribe(SpanEventTopic, func(span model.SpanEvent) error {
		return exporter.Buffer(span)
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe span exporter to span events: %w", err)
	}

	ticker := time.NewTicker(flushInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := exporter.Flush(context.Background()); err != nil {
					logger.Error("Failed to flush spans to collector", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}, nil
}
