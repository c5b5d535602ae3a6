package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/dannyrandall/moviehub/internal/otel"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/trace"
)

type loggerKey struct{}

// OTelTraceID returns the X-Ray formatted id of the OpenTelemetry trace
// recorded on the request context.
func OTelTraceID(r *http.Request) string {
	span := trace.SpanFromContext(r.Context())
	if !span.SpanContext().HasTraceID() {
		return ""
	}
	return otel.XRayTraceID(span)
}

// withRequestLogger attaches a logger to the request whose prefix correlates
// every line with the trace, or with a fresh request id when untraced.
func (a *API) withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := ksuid.New().String()
		w.Header().Set("X-Request-Id", reqID)

		prefix := fmt.Sprintf("REQUEST-ID: %s - ", reqID)
		if a.TraceID != nil {
			if id := a.TraceID(r); id != "" {
				prefix = fmt.Sprintf("AWS-XRAY-TRACE-ID: %s - ", id)
			}
		}

		var out io.Writer = os.Stderr
		if a.LogOutput != nil {
			out = a.LogOutput
		}

		l := log.New(out, prefix, log.LstdFlags|log.Lmsgprefix)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, l)))
	})
}

func requestLogger(r *http.Request) *log.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
