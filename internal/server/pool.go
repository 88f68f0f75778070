package server

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction handles a single queued task. A non-nil error is fatal
// to the worker that returned it; Setup respawns a replacement so the
// pool stays at full strength.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool runs a fixed number of goroutines pulling connections off
// a shared task queue, so one slow or stuck client can't monopolize the
// listener loop.
type WorkerPool struct {
	n     int
	tasks chan any
	work  WorkerFunction
	done  chan struct{}
}

func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		tasks: make(chan any, taskChanSize),
		n:     size,
		done:  make(chan struct{}, size),
	}
}

// AddTask enqueues a unit of work for the next free worker.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup keeps the pool at n active workers until t starts dying. The
// active count is only ever touched from this goroutine: a finished
// worker signals pool.done rather than decrementing a shared counter
// itself, so there's nothing for a concurrent writer to race with.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	active := 0
	for {
		if active < pool.n {
			t.Go(func() error {
				// worker has already logged any error; handing it to
				// t.Go would kill t and take the whole pool down.
				pool.worker(t, work)
				pool.done <- struct{}{}
				return nil
			})
			active++
			continue
		}
		select {
		case <-t.Dying():
			return
		case <-pool.done:
			active--
		}
	}
}

// worker waits for a single task, actions it, and returns. Setup
// notices the drop in active count and spins up a replacement, which
// keeps a worker that returned a fatal error from taking the whole pool
// down with it.
func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-pool.tasks:
		if err := work(t, task); err != nil {
			log.Error().Err(err).Msg("worker exiting")
			return err
		}
	}
	return nil
}
