package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder captures the status code written by a handler so the
// request log can report it. Only the first WriteHeader wins, matching
// net/http semantics.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

func (rec *statusRecorder) Status() int {
	return rec.status
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.wroteHeader {
		return
	}

	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
	rec.wroteHeader = true
}

// Logging logs one line per request: method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := recordStatus(w)
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		log.Printf("%s %s %d %s", r.Method, r.URL.Path, status, time.Since(start))
	})
}
