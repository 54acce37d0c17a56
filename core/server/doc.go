// Package server holds the monitor HTTP server configuration.
//
// The serve command reads the listen port and the optional API key from here;
// the middleware package enforces the key on every /sync route.
package server
