// Package runner executes independent retrieval jobs on a bounded worker
// pool. Each job owns its result; one job failing does not cancel or alter
// the others.
package runner
