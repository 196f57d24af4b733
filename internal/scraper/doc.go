// Package scraper provides HTTP fetching and HTML extraction for a university course calendar.
//
// The calendar publishes a directory page linking every subject, and one static page per
// subject listing its courses. Course names and numbers sit in separate template elements
// whose ids end in "_cnCourse" and "_cnCode"; prerequisite text sits in elements with the
// "course-prereq" class. The scraper walks those markers in document order to build course
// records and to find which courses list a given course as a prerequisite.
package scraper
