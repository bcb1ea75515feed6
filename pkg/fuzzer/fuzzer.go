// Package fuzzer is the concurrent scan engine. It drives a pool of workers
// that each pull a candidate path from a shared wordlist, probe it, run the
// response through the wildcard scanners, and report the outcome through
// caller-supplied callbacks. The engine supports live pause/resume/stop and
// an approximate request-rate cap.
package fuzzer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
	"github.com/lanyi1998/dirsearch/pkg/ratelimit"
	"github.com/lanyi1998/dirsearch/pkg/requester"
	"github.com/lanyi1998/dirsearch/pkg/scanner"
)

// Dictionary is the candidate source: a thread-safe cursor over path
// strings. pkg/wordlist provides the production implementation.
type Dictionary interface {
	Size() int
	Reset()
	Extensions() []string
	Next() (string, bool)
}

// Scanner classifies one (path, response) pair. Implementations must be
// idempotent per pair and safe to invoke from any worker in any order.
type Scanner interface {
	Scan(path string, resp *requester.Response) bool
}

// ScannerFactory builds a scanner scoped by opts. The default factory wraps
// pkg/scanner; tests substitute their own.
type ScannerFactory func(req requester.Requester, opts scanner.Options) (Scanner, error)

// Callback signatures. Callbacks run synchronously on worker goroutines and
// must be safe for concurrent invocation if they touch shared state.
type (
	MatchFunc    func(*Result)
	NotFoundFunc func(*Result)
	ErrorFunc    func(path, message string)
)

// Recorder observes scan events, e.g. for Prometheus export. All methods
// may be called concurrently.
type Recorder interface {
	RecordRequest()
	RecordMatch()
	RecordNotFound()
	RecordError()
	RecordWorkers(live int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest()    {}
func (nopRecorder) RecordMatch()      {}
func (nopRecorder) RecordNotFound()   {}
func (nopRecorder) RecordError()      {}
func (nopRecorder) RecordWorkers(int) {}

// Config holds everything needed to reproduce a scan.
type Config struct {
	// Requester issues the probes. Required.
	Requester requester.Requester

	// Dictionary supplies candidate paths. Required.
	Dictionary Dictionary

	// Prefixes and Suffixes each get a dedicated wildcard scanner on top
	// of the implicit "." prefix and "/" suffix.
	Prefixes []string
	Suffixes []string

	// ExcludeContent, when set, is a known-nonexistent path whose content
	// calibrates an extra scanner. A leading "/" is stripped.
	ExcludeContent string

	// Threads is the requested pool size. Silently clamped to the
	// dictionary size; defaults to defaults.ThreadsMedium.
	Threads int

	// Delay is slept by each worker between candidates.
	Delay time.Duration

	// MaxRate caps probe starts per trailing second (0 = unlimited).
	MaxRate int

	MatchCallbacks    []MatchFunc
	NotFoundCallbacks []NotFoundFunc
	ErrorCallbacks    []ErrorFunc

	// ScannerFactory overrides how scanners are built. Optional.
	ScannerFactory ScannerFactory

	// Recorder observes scan events. Optional.
	Recorder Recorder
}

// Fuzzer owns the worker pool, the scanner registry, the rate limiter, the
// pause/resume/stop state machine, and the shared result set.
type Fuzzer struct {
	cfg      Config
	threads  int
	factory  ScannerFactory
	recorder Recorder
	limiter  *ratelimit.Limiter

	registry *registry

	// mu guards the lifecycle state below. playCond is the play gate: a
	// broadcast wake over gateOpen. ackCond is the pause rendezvous.
	// pauseGen numbers the pauses so each worker acknowledges every pause
	// exactly once, even when pauses and resumes cycle faster than a woken
	// worker reacquires the lock.
	mu          sync.Mutex
	playCond    *sync.Cond
	ackCond     *sync.Cond
	gateOpen    bool
	paused      bool
	running     bool
	pauseGen    uint64
	acked       int
	liveWorkers int
	done        chan struct{}

	resultsMu sync.Mutex
	matches   []*Result
}

// New validates cfg and prepares an engine in the idle state. Start begins
// the scan.
func New(cfg Config) (*Fuzzer, error) {
	if cfg.Requester == nil {
		return nil, errors.New("fuzzer: Requester is required")
	}
	if cfg.Dictionary == nil {
		return nil, errors.New("fuzzer: Dictionary is required")
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = defaults.ThreadsMedium
	}
	// Never spawn more workers than there is work
	if size := cfg.Dictionary.Size(); threads > size {
		threads = size
	}

	factory := cfg.ScannerFactory
	if factory == nil {
		factory = func(req requester.Requester, opts scanner.Options) (Scanner, error) {
			return scanner.New(req, opts)
		}
	}

	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	f := &Fuzzer{
		cfg:      cfg,
		threads:  threads,
		factory:  factory,
		recorder: rec,
		limiter:  ratelimit.NewPerSecond(cfg.MaxRate),
		done:     make(chan struct{}),
	}
	close(f.done) // idle engine is trivially finished
	f.playCond = sync.NewCond(&f.mu)
	f.ackCond = sync.NewCond(&f.mu)
	return f, nil
}

// Start builds the scanner registry, rewinds the dictionary, spawns the
// worker pool and opens the play gate. It returns once scanning is under
// way; use Wait to block until completion.
func (f *Fuzzer) Start() error {
	reg, err := f.buildRegistry()
	if err != nil {
		return fmt.Errorf("fuzzer: %w", err)
	}

	f.cfg.Dictionary.Reset()

	f.resultsMu.Lock()
	f.matches = nil
	f.resultsMu.Unlock()

	f.mu.Lock()
	f.registry = reg
	f.running = true
	f.paused = false
	f.gateOpen = false
	f.acked = 0
	f.liveWorkers = f.threads
	f.done = make(chan struct{})
	if f.threads == 0 {
		close(f.done)
	}
	f.mu.Unlock()

	f.recorder.RecordWorkers(f.threads)
	for i := 0; i < f.threads; i++ {
		go f.worker()
	}

	f.Play()
	return nil
}

// Play opens the play gate: all workers blocked on it wake together.
func (f *Fuzzer) Play() {
	f.mu.Lock()
	f.gateOpen = true
	f.playCond.Broadcast()
	f.mu.Unlock()
}

// Pause closes the play gate and blocks until every worker alive at the
// time of the call has reached its safe point (or exited). No probe starts
// after Pause returns until Resume.
func (f *Fuzzer) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paused || !f.running {
		return
	}
	f.paused = true
	f.gateOpen = false
	f.pauseGen++
	f.acked = 0

	// Wake parked workers so they observe this pause and acknowledge it.
	f.playCond.Broadcast()

	// Counting rendezvous sized to the live workers at pause time. A
	// worker that exits while we wait acks on its way out, and Stop
	// releases the wait, so the count always completes.
	target := f.liveWorkers
	for f.acked < target && f.running {
		f.ackCond.Wait()
	}
}

// Resume reopens the play gate; all paused workers proceed together.
func (f *Fuzzer) Resume() {
	f.mu.Lock()
	f.paused = false
	f.gateOpen = true
	f.playCond.Broadcast()
	f.mu.Unlock()
}

// Stop clears the running and paused flags and opens the gate so paused
// workers wake, observe the flag, and exit. In-flight probes complete
// normally; their results may still be delivered. A Pause blocked on its
// rendezvous is released too.
func (f *Fuzzer) Stop() {
	f.mu.Lock()
	f.running = false
	f.paused = false
	f.gateOpen = true
	f.playCond.Broadcast()
	f.ackCond.Broadcast()
	f.mu.Unlock()
}

// Wait blocks until every worker has terminated or timeout elapses
// (timeout <= 0 means wait forever). It reports whether the pool fully
// drained in time.
func (f *Fuzzer) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()

	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// IsRunning reports whether Stop has not yet been observed this run.
func (f *Fuzzer) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// IsPaused reports whether the engine is paused.
func (f *Fuzzer) IsPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

// IsFinished reports whether every worker has terminated.
func (f *Fuzzer) IsFinished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveWorkers == 0
}

// Threads returns the effective pool size after clamping.
func (f *Fuzzer) Threads() int { return f.threads }

// Matches returns a snapshot of the confirmed hits so far. Safe to call
// mid-run.
func (f *Fuzzer) Matches() []*Result {
	f.resultsMu.Lock()
	defer f.resultsMu.Unlock()
	out := make([]*Result, len(f.matches))
	copy(out, f.matches)
	return out
}

// worker is the per-goroutine scan loop. ackedGen is this worker's
// last-acknowledged pause generation; it travels into gate and exit so a
// pause is acked exactly once per worker no matter where the worker blocks.
func (f *Fuzzer) worker() {
	var ackedGen uint64
	defer f.exit(&ackedGen)

	for {
		if !f.gate(&ackedGen) {
			return
		}

		path, ok := f.cfg.Dictionary.Next()
		if !ok {
			return
		}

		f.limiter.Wait()
		f.attempt(path)

		// Post-attempt safe point: if a pause landed while we were busy,
		// gate acks it and re-blocks until resume.
		if !f.gate(&ackedGen) {
			return
		}

		if f.cfg.Delay > 0 {
			time.Sleep(f.cfg.Delay)
		}
	}
}

// gate blocks while the play gate is closed. Every wakeup that observes a
// pause generation this worker has not acknowledged yet acks it, so a new
// pause arriving while the worker is still parked from the previous cycle
// is never missed. Returns the running flag so callers can exit promptly
// after Stop.
func (f *Fuzzer) gate(ackedGen *uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for !f.gateOpen {
		if f.paused && *ackedGen != f.pauseGen {
			*ackedGen = f.pauseGen
			f.acked++
			f.ackCond.Signal()
		}
		f.playCond.Wait()
	}
	return f.running
}

// exit retires a worker: the live count only ever decreases, and reaching
// zero completes the run. A pending pause this worker has not acknowledged
// still gets its ack so the rendezvous count matches.
func (f *Fuzzer) exit(ackedGen *uint64) {
	f.mu.Lock()
	f.liveWorkers--
	live := f.liveWorkers
	if f.paused && *ackedGen != f.pauseGen {
		*ackedGen = f.pauseGen
		f.acked++
		f.ackCond.Signal()
	}
	if live == 0 {
		close(f.done)
	}
	f.mu.Unlock()

	f.recorder.RecordWorkers(live)
}

// attempt probes one candidate and routes the outcome. Prober failures are
// reported and never retried; scanning proceeds with the next candidate.
func (f *Fuzzer) attempt(path string) {
	f.recorder.RecordRequest()

	resp, err := f.cfg.Requester.Request(path)
	if err != nil {
		msg := err.Error()
		var reqErr *requester.RequestError
		if errors.As(err, &reqErr) {
			msg = reqErr.Message
		}
		f.recorder.RecordError()
		for _, cb := range f.cfg.ErrorCallbacks {
			cb(path, msg)
		}
		return
	}

	result := &Result{Path: path, Response: resp}
	if resp.Status != 0 && f.registry.classify(path, resp) {
		result.Status = resp.Status
		f.resultsMu.Lock()
		f.matches = append(f.matches, result)
		f.resultsMu.Unlock()

		f.recorder.RecordMatch()
		for _, cb := range f.cfg.MatchCallbacks {
			cb(result)
		}
		return
	}

	f.recorder.RecordNotFound()
	for _, cb := range f.cfg.NotFoundCallbacks {
		cb(result)
	}
}
