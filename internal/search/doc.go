// Package search answers questions about a course calendar: which subjects it
// lists, which courses a subject offers, and which courses name a given course
// as a prerequisite.
//
// The cross-subject search reads the directory page once and then scans every
// subject page on a bounded pool of workers. A subject that cannot be fetched
// is logged and skipped; only a failure to read the directory itself is
// returned to the caller.
package search
