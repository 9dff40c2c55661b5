// Package ratelimit paces requests to the upstream API.
//
// TokenBucket wraps golang.org/x/time/rate and is shared by every request a
// client issues, so concurrent scraper calls draw from the same budget.
package ratelimit
