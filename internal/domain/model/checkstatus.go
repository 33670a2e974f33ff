package model

// CheckRun is a check run on the head commit. Conclusion is empty while the
// run is queued or in progress.
type CheckRun struct {
	ID         int64
	Name       string
	Status     string
	Conclusion string
}
