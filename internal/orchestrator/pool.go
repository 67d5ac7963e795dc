package orchestrator

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Pool errors
var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrPoolStopped = errors.New("worker pool stopped")
)

// Task is one unit of per-asset post-processing work. The error channel
// is buffered so workers never block on delivery.
type Task struct {
	ID        string
	Run       func() error
	Err       chan error
	Timestamp time.Time
}

// NewTask creates a task with the given id and work function.
func NewTask(id string, run func() error) *Task {
	return &Task{
		ID:        id,
		Run:       run,
		Err:       make(chan error, 1),
		Timestamp: time.Now(),
	}
}

// Pool is a bounded worker pool used for per-asset post-processing
// (enrichment, storage upload, repository persistence), so one slow
// upload does not serialize the remaining assets.
type Pool struct {
	tasks   chan *Task
	workers int
	wg      sync.WaitGroup
	quit    chan struct{}
	active  map[string]*Task
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewPool creates and starts a worker pool.
func NewPool(workers, queueSize int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	p := &Pool{
		tasks:   make(chan *Task, queueSize),
		workers: workers,
		quit:    make(chan struct{}),
		active:  make(map[string]*Task),
		log:     log,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker(i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("post-processing pool started")
}

// Stop drains the pool and waits for in-flight tasks.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit queues a task, failing fast when the queue is full so the
// caller can fall back to inline processing.
func (p *Pool) Submit(task *Task) error {
	p.mu.Lock()
	p.active[task.ID] = task
	p.mu.Unlock()

	select {
	case p.tasks <- task:
		return nil
	default:
		p.mu.Lock()
		delete(p.active, task.ID)
		p.mu.Unlock()
		return ErrQueueFull
	}
}

// ActiveTasks returns the number of queued or running tasks.
func (p *Pool) ActiveTasks() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.active)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			err := task.Run()
			p.mu.Lock()
			delete(p.active, task.ID)
			p.mu.Unlock()
			if err != nil {
				p.log.Debug().Int("worker", id).Str("task", task.ID).Err(err).Msg("task failed")
			}
			task.Err <- err
		case <-p.quit:
			return
		}
	}
}
