package sensor

import "sync"

// Async wraps a Driver whose reads involve a network round trip. The first
// Read is synchronous; after that Read returns the most recent completed
// result at once and starts the next read in the background, so results
// trail the poll that requested them by one poll.
type Async struct {
	driver Driver

	mu     sync.Mutex
	last   Result
	primed bool
	busy   bool
	reads  sync.WaitGroup
}

// NewAsync wraps d.
func NewAsync(d Driver) *Async {
	return &Async{driver: d}
}

// Read returns the latest result and schedules a fresh one if none is in
// flight.
func (a *Async) Read() (Reading, error) {
	a.mu.Lock()
	if !a.primed {
		a.mu.Unlock()
		r, err := a.driver.Read()
		a.mu.Lock()
		a.last = Result{Reading: r, Err: err}
		a.primed = true
		a.mu.Unlock()
		return r, err
	}
	last := a.last
	if !a.busy {
		a.busy = true
		a.reads.Add(1)
		go a.fetch()
	}
	a.mu.Unlock()
	return last.Reading, last.Err
}

func (a *Async) fetch() {
	defer a.reads.Done()
	r, err := a.driver.Read()
	a.mu.Lock()
	a.last = Result{Reading: r, Err: err}
	a.busy = false
	a.mu.Unlock()
}

func (a *Async) wait() {
	a.reads.Wait()
}

// Close waits for an in-flight read and closes the driver.
func (a *Async) Close() error {
	a.wait()
	return a.driver.Close()
}
