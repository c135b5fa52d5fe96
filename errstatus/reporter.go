// Package errstatus provides the thread-guarded status/message object that
// carries error state across the C-callable bindings boundary, alongside
// the idiomatic Go error values every internal call still returns.
package errstatus

import "sync"

// Status is the severity of the last reported condition.
type Status int

const (
	OK Status = iota
	Warning
	Error
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Reporter holds the last status and message reported by a query driver or
// model, guarded by a mutex so it can be polled safely from a foreign
// caller on a different thread than the one that set it.
type Reporter struct {
	mu      sync.Mutex
	status  Status
	message string
}

// New returns a Reporter in the OK state.
func New() *Reporter {
	return &Reporter{status: OK}
}

// SetStatus records a new status and message, overwriting any prior one.
func (r *Reporter) SetStatus(status Status, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.message = message
}

// SetError is a convenience wrapper that records err's message at Error
// severity. It is a no-op if err is nil.
func (r *Reporter) SetError(err error) {
	if err == nil {
		return
	}
	r.SetStatus(Error, err.Error())
}

// Reset returns the reporter to the OK state with no message.
func (r *Reporter) Reset() {
	r.SetStatus(OK, "")
}

// Get returns the current status and message.
func (r *Reporter) Get() (Status, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.message
}
