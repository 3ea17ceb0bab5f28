// Package archive downloads daily MTO delivery reports from the exchange
// archive mirrors.
//
// A Fetcher tries every configured mirror in order and returns the first
// response that is a successful, non-HTML report. The whole mirror sequence
// is retried a fixed number of times with a fixed delay before the fetch is
// reported as a fetch error.
package archive
