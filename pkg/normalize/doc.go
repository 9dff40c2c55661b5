// Package normalize turns raw upstream JSON into flat records with a fixed
// key set per entity.
//
// Every declared key is always present. Missing, null or mistyped upstream
// values become nil, a missing creation time becomes "NaN", and a post or
// comment that was never edited reports false. Nothing in this package
// returns an error.
//
// Parse* functions detect whether the input is a single entity (bare or
// wrapped in an envelope) or a listing and return a Result tagged with that
// Shape. Single profiles are recognized structurally: users carry
// is_employee, communities carry subreddit_type and wiki pages carry
// revision_id.
package normalize
