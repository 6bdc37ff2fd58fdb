// Package resilience bounds the load the server accepts.
//
// A Bulkhead caps how many coaching pipelines run at once; each pipeline
// holds an upload on disk and two upstream calls, so the cap bounds both
// disk usage and upstream fan-out. A KeyedRateLimiter applies a token
// bucket per client so one caller cannot monopolize those slots.
//
// Neither pattern retries: a request either gets a slot or fails.
package resilience
