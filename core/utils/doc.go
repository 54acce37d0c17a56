// Package utils provides conversions for loosely typed values such as
// spreadsheet cells decoded from JSON.
package utils
