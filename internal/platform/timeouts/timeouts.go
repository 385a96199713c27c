// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// HealthWait caps how long a health probe waits for SERVING.
const HealthWait = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Request bounds the work done for a single HTTP API request.
const Request = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// OTelShutdown limits how long pending spans may take to flush on exit.
const OTelShutdown = 5 * time.Second
