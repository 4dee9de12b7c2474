package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/api/metrics"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	releaseTimeout = 30 * time.Second
)

type releaseJob struct {
	publicID string
	reason   string
}

// Dispatcher releases orphaned blobs in the background. Jobs are sharded by
// object id across a fixed set of workers so the same object is never
// released concurrently. It implements ports.DeferredReleaser.
type Dispatcher struct {
	workers []chan releaseJob
	blobs   ports.BlobStore
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, blobs ports.BlobStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan releaseJob, numWorkers),
		blobs:   blobs,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan releaseJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// once Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop refuses new jobs, waits for queued ones to finish and returns.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// ReleaseLater queues publicID for release. It never blocks: when the worker
// channel is full or the dispatcher is stopped the job is dropped, logged
// and counted.
func (d *Dispatcher) ReleaseLater(publicID, reason string) {
	if publicID == "" {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(publicID, reason, "dispatcher stopped")
		return
	}
	idx := d.shardIndex(publicID)
	select {
	case d.workers[idx] <- releaseJob{publicID: publicID, reason: reason}:
		metrics.ReleaseQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(publicID, reason, "queue full")
	}
}

func (d *Dispatcher) drop(publicID, reason, why string) {
	metrics.ReleaseQueueDroppedTotal.Inc()
	d.log.Warn().
		Str("public_id", publicID).
		Str("reason", reason).
		Msgf("deferred release dropped: %s", why)
}

// shardIndex maps an object id deterministically to a worker index.
func (d *Dispatcher) shardIndex(publicID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(publicID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan releaseJob) {
	defer d.wg.Done()
	depth := metrics.ReleaseQueueDepth.WithLabelValues(strconv.Itoa(id))
	for job := range ch {
		depth.Dec()
		d.release(ctx, id, job)
	}
}

// release makes a single attempt; the original request has already been
// answered, so failure is only logged.
func (d *Dispatcher) release(ctx context.Context, workerID int, job releaseJob) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := d.blobs.Release(ctx, job.publicID); err != nil {
		d.log.Error().Err(err).
			Str("public_id", job.publicID).
			Str("reason", job.reason).
			Int("worker_id", workerID).
			Msg("deferred release failed")
		return
	}
	d.log.Debug().
		Str("public_id", job.publicID).
		Str("reason", job.reason).
		Int("worker_id", workerID).
		Msg("orphaned object released")
}
