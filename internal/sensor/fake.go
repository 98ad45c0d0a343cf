package sensor

import "errors"

// Result is one scripted outcome for FakeDriver.
type Result struct {
	Reading Reading
	Err     error
}

// OK returns a successful scripted result.
func OK(cold, hot float64) Result {
	return Result{Reading: Reading{ColdJunctionC: cold, HotJunctionC: hot}}
}

// Fail returns a failing scripted result.
func Fail(err error) Result {
	return Result{Err: err}
}

// FakeDriver is a test double that returns scripted results.
type FakeDriver struct {
	// Results contains the scripted outcomes. Each call to Read consumes the
	// next one; once exhausted the last is repeated.
	Results []Result

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeDriver creates a FakeDriver with the given results.
func NewFakeDriver(results ...Result) *FakeDriver {
	return &FakeDriver{Results: results}
}

// Read returns the next scripted result.
func (f *FakeDriver) Read() (Reading, error) {
	f.Reads++
	if len(f.Results) == 0 {
		return Reading{}, errors.New("no results configured")
	}
	r := f.Results[f.index]
	if f.index < len(f.Results)-1 {
		f.index++
	}
	if r.Err != nil {
		return Reading{}, r.Err
	}
	return r.Reading, nil
}

// Push replaces the results not yet consumed with results.
func (f *FakeDriver) Push(results ...Result) {
	f.Results = append(f.Results[:f.index], results...)
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}
