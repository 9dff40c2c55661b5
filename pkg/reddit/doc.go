// Package reddit is the transport for the public Reddit JSON API.
//
// A Client issues one GET per call and reports failures as *errors.Error
// values: 404 is not_found, 429 is rate_limit, other non-2xx statuses and
// network failures are transport, and undecodable bodies are malformed.
// Retrying is an opt-in policy configured through Options.Retry.
//
// The package also holds the endpoint path templates, the query builders for
// listings and search, and the Envelope/Listing wire types.
package reddit
