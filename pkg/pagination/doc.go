// Package pagination collects cursor-linked listing pages.
//
// Each page carries an opaque "after" cursor that is forwarded verbatim to
// the next request. A Paginator pauses between pages (never before the first
// request or after the last one) and honors context cancellation while
// waiting. Items are not deduplicated.
package pagination
