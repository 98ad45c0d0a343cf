package power

// FakeController records requests for test assertions.
type FakeController struct {
	Sleeps   int
	Restarts int

	// Err, if set, is returned by both requests.
	Err error
}

// Sleep records the request.
func (f *FakeController) Sleep() error {
	f.Sleeps++
	return f.Err
}

// Restart records the request.
func (f *FakeController) Restart() error {
	f.Restarts++
	return f.Err
}
