// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - Auth: Validates the X-API-Key header against the configured key.
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// RayID runs first so every log line of a request carries its id; Auth follows
// and guards the monitor routes. An empty API key disables Auth.
package middleware
