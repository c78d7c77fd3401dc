// Package models holds the rate limiting vocabulary shared by the bucket
// stores and the HTTP middleware.
package models

import "time"

// EndpointClass groups routes that share one limit.
type EndpointClass string

const (
	// ClassPublic covers the unauthenticated verification routes a person
	// reaches through the emailed link.
	ClassPublic EndpointClass = "public"
	// ClassAuth covers login and password reset.
	ClassAuth EndpointClass = "auth"
)

// Limit allows Requests per sliding Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}
