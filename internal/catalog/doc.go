// Package catalog provides the record types produced by the calendar scraper.
//
// A Subject is one department listing linked from the calendar's directory page,
// a Course is one entry on a subject page, and a PrerequisiteMatch records that
// a course on some subject page lists a target course as a prerequisite. All
// records are built once per request and are not modified afterwards.
package catalog
