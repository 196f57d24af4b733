// Package api serves the calendar queries as a small JSON HTTP API.
//
// Routes:
//
//	GET /subject-codes                             subject name → page URL
//	GET /courses?url=<subject page>                courses on one subject page
//	GET /prerequisites?name=<name>&number=<num>    courses in any subject requiring the course
//	GET /subjects/{subject}/prerequisites?number=  courses within one subject requiring one of its courses
//
// Errors are returned as {"error": "..."}.
package api
