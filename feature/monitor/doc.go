// Package monitor consumes scheduler results and exposes the sync controls over HTTP.
//
// Routes (mounted under /sync):
//
//	GET  /status    current status, interval, last result and today's count
//	POST /trigger   request an immediate cycle
//	PUT  /interval  change the poll interval ({"minutes": N})
//	POST /reload    drop cached credentials
package monitor
