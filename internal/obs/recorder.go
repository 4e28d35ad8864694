package obs

import "net/http"

// StatusRecorder wraps a ResponseWriter to capture the written status code.
type StatusRecorder struct {
	http.ResponseWriter
	status int
}

// NewStatusRecorder wraps the provided writer.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status code before delegating.
func (r *StatusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Status returns the recorded status code.
func (r *StatusRecorder) Status() int {
	return r.status
}
