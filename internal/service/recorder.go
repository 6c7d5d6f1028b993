package service

// Recorder receives operation outcomes for instrumentation.
// *metrics.Metrics satisfies it.
type Recorder interface {
	RecordOperation(operation string, err error)
	UserRegistered()
	SessionStarted()
	SessionEnded()
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, error) {}
func (nopRecorder) UserRegistered()               {}
func (nopRecorder) SessionStarted()               {}
func (nopRecorder) SessionEnded()                 {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
