package httpx

import (
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StatusRecorder captures the status code and body size written by a
// handler.
type StatusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

// NewStatusRecorder wraps w; the status defaults to 200 until written.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Status returns the first status code written.
func (w *StatusRecorder) Status() int {
	return w.status
}

// Bytes returns the body size written so far.
func (w *StatusRecorder) Bytes() int {
	return w.bytes
}

func (w *StatusRecorder) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *StatusRecorder) Write(b []byte) (int, error) {
	w.written = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *StatusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RequestLogger logs one line per request with status, size and latency.
func RequestLogger(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := NewStatusRecorder(w)
			next.ServeHTTP(rec, r)
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" {
				requestID = "-"
			}
			logger.Printf(
				"http request method=%s path=%s status=%d bytes=%d latency=%s request_id=%s",
				r.Method,
				r.URL.Path,
				rec.Status(),
				rec.Bytes(),
				time.Since(start).Round(time.Microsecond),
				requestID,
			)
		})
	}
}

// Trace wraps each request in a server span. The span is named after the
// matched route pattern, or the bare method when nothing matched, so share
// slugs never become span names. Incoming trace context headers are honored.
func Trace(tracerName string) Middleware {
	return traceWith(otel.Tracer(tracerName))
}

func traceWith(tracer trace.Tracer) Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
					attribute.String("http.request_id", r.Header.Get(RequestIDHeader)),
				),
			)
			defer span.End()

			rec := NewStatusRecorder(w)
			// ServeMux records the matched pattern on the request it receives.
			req := r.WithContext(ctx)
			next.ServeHTTP(rec, req)

			if req.Pattern != "" {
				span.SetName(req.Pattern)
				span.SetAttributes(attribute.String("http.route", req.Pattern))
			}
			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}
		})
	}
}
