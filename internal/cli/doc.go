// Package cli implements the command-line interface for calendar-prereqs.
//
// The cli package provides the Cobra-based CLI for listing calendar subjects and courses,
// searching for courses that require a given course, and serving the same queries over
// HTTP. It loads configuration, sets up logging and wires the scraper, search and api
// packages together. Results are written as styled text or indented JSON.
package cli
