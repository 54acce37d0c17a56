// Package storage connects the state mirror to an S3-compatible bucket.
//
// NewClient wraps the MinIO Go client so every request carries a deadline
// derived from timeout_seconds. The HTTP transport applies the same bound to
// connection setup and to the wait for response headers. The
// endpoint may be a bare host (TLS chosen by use_ssl) or an http/https URL.
//
//	client, err := storage.NewClient(cfg.Storage)
//	mirror := state.NewMinioMirror(client, cfg.Storage.Bucket, cfg.Storage.StateObject)
package storage
