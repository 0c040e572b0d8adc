package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder observes delivery outcomes. result is "ok", "error" or "dropped".
type Recorder interface {
	AuditEvent(action, result string)
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the report id, so events of one report reach the sink in the
// order they were published.
type Dispatcher struct {
	mu       sync.RWMutex
	closed   bool
	workers  []chan domain.AuditEvent
	wg       sync.WaitGroup
	sink     ports.AuditSink
	recorder Recorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. recorder may be nil.
func NewDispatcher(numWorkers int, sink ports.AuditSink, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuditEvent, numWorkers),
		sink:     sink,
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled
// or, after Close, once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands the event to the worker responsible for its report. It never
// blocks: when that worker's queue is full the event is dropped and logged.
func (d *Dispatcher) Publish(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.record(event, "dropped")
		return
	}
	select {
	case d.workers[d.shardIndex(event.ReportID)] <- event:
	default:
		d.log.Warn().Str("report_id", event.ReportID).Str("action", string(event.Action)).Msg("audit queue full, event dropped")
		d.record(event, "dropped")
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a report id deterministically to a worker index.
func (d *Dispatcher) shardIndex(reportID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reportID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, event domain.AuditEvent) {
	if err := d.sink.Write(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("report_id", event.ReportID).
			Str("action", string(event.Action)).
			Int("worker_id", id).
			Msg("audit event write failed")
		d.record(event, "error")
		return
	}
	d.record(event, "ok")
}

func (d *Dispatcher) record(event domain.AuditEvent, result string) {
	if d.recorder != nil {
		d.recorder.AuditEvent(string(event.Action), result)
	}
}
