package navigator

import (
	"sync"
	"time"
)

// Timer is a pending delayed call.
type Timer interface {
	// Stop prevents the call from running, returns false if it already ran
	// or was stopped.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules calls on wall clock time.
var SystemScheduler Scheduler = systemScheduler{}

// loop runs session tasks one at a time on a single goroutine, session
// state is only touched from there.
type loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func newLoop() *loop {
	l := &loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case f := <-l.tasks:
			f()
		}
	}
}

// post queues f, returns false when loop is closed.
func (l *loop) post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- f:
		return true
	}
}

// call runs f on the loop and waits for it to finish. Must not be used from
// the loop itself.
func (l *loop) call(f func()) bool {
	finished := make(chan struct{})
	if !l.post(func() {
		defer close(finished)
		f()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// close stops the loop after the running task, queued tasks are dropped.
func (l *loop) close() {
	l.once.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

func (l *loop) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
