// Package watch reloads credentials when their files change on disk.
//
// Directories are watched rather than files so that editors and token
// refreshes that replace a file atomically are still seen.
package watch
