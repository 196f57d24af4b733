package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
	"github.com/pfrederiksen/calendar-prereqs/internal/logger"
)

// DefaultWorkers caps how many subject pages are scanned at once
const DefaultWorkers = 10

var (
	// ErrInvalidQuery is returned when a required query value is empty
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSubjectNotFound is returned when a subject name is not in the directory
	ErrSubjectNotFound = errors.New("subject not found")
)

// PageSource fetches and extracts calendar pages. *scraper.Client implements it.
type PageSource interface {
	FetchSubjects(ctx context.Context, directoryURL string, excluded []string) (*catalog.SubjectMap, error)
	FetchCourses(ctx context.Context, subjectURL string) ([]catalog.Course, error)
	ScanSubject(ctx context.Context, subjectURL, name, number string) ([]catalog.PrerequisiteMatch, error)
}

// Options configures a Service
type Options struct {
	DirectoryURL     string
	ExcludedSubjects []string
	Workers          int
}

// Service runs calendar queries against a PageSource
type Service struct {
	source       PageSource
	directoryURL string
	excluded     []string
	workers      int
}

// New creates a Service. Workers below one fall back to DefaultWorkers.
func New(source PageSource, opts Options) *Service {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Service{
		source:       source,
		directoryURL: opts.DirectoryURL,
		excluded:     opts.ExcludedSubjects,
		workers:      workers,
	}
}

// DirectoryURL returns the directory page the service reads subjects from
func (s *Service) DirectoryURL() string {
	return s.directoryURL
}

// Subjects fetches the directory page and returns its subjects
func (s *Service) Subjects(ctx context.Context) (*catalog.SubjectMap, error) {
	subjects, err := s.source.FetchSubjects(ctx, s.directoryURL, s.excluded)
	if err != nil {
		return nil, fmt.Errorf("fetching subject directory: %w", err)
	}
	return subjects, nil
}

// Courses fetches one subject page and returns its courses
func (s *Service) Courses(ctx context.Context, subjectURL string) ([]catalog.Course, error) {
	if strings.TrimSpace(subjectURL) == "" {
		return nil, fmt.Errorf("%w: subject url is required", ErrInvalidQuery)
	}
	courses, err := s.source.FetchCourses(ctx, subjectURL)
	if err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}
	return courses, nil
}

// SubjectCourses looks subjectName up in the directory and returns its courses
func (s *Service) SubjectCourses(ctx context.Context, subjectName string) ([]catalog.Course, error) {
	subject, err := s.lookup(ctx, subjectName)
	if err != nil {
		return nil, err
	}
	return s.Courses(ctx, subject.URL)
}

// SearchSubject scans a single subject's page for courses that require
// course number of that same subject. Fetch failures are returned.
func (s *Service) SearchSubject(ctx context.Context, subjectName, number string) ([]catalog.PrerequisiteMatch, error) {
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("%w: course number is required", ErrInvalidQuery)
	}

	subject, err := s.lookup(ctx, subjectName)
	if err != nil {
		return nil, err
	}

	matches, err := s.source.ScanSubject(ctx, subject.URL, subject.Name, number)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", subject.Name, err)
	}
	if matches == nil {
		matches = []catalog.PrerequisiteMatch{}
	}
	return matches, nil
}

func (s *Service) lookup(ctx context.Context, subjectName string) (catalog.Subject, error) {
	if strings.TrimSpace(subjectName) == "" {
		return catalog.Subject{}, fmt.Errorf("%w: subject name is required", ErrInvalidQuery)
	}

	subjects, err := s.Subjects(ctx)
	if err != nil {
		return catalog.Subject{}, err
	}

	subject, ok := subjects.Get(subjectName)
	if !ok {
		return catalog.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectName)
	}
	return subject, nil
}

// taskResult is what one subject scan leaves behind
type taskResult struct {
	subject catalog.Subject
	matches []catalog.PrerequisiteMatch
	err     error
}

// SearchAll finds every course, in any subject, whose prerequisites name the
// course identified by name and number.
//
// Subjects are scanned concurrently, at most Workers at a time. Every subject
// is attempted; subjects that fail are logged and contribute no matches.
// Matches are grouped by subject in directory order.
func (s *Service) SearchAll(ctx context.Context, name, number string) ([]catalog.PrerequisiteMatch, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("%w: course name and number are required", ErrInvalidQuery)
	}

	searchID := uuid.NewString()
	start := time.Now()

	subjects, err := s.Subjects(ctx)
	if err != nil {
		return nil, err
	}

	list := subjects.Subjects()
	logger.Debug("Scanning subjects", logger.Fields{
		"search_id": searchID,
		"subjects":  len(list),
		"workers":   s.workers,
	})

	results := make([]taskResult, len(list))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, subject := range list {
		g.Go(func() error {
			results[i] = s.scan(ctx, subject, name, number)
			return nil
		})
	}
	_ = g.Wait()

	matches := make([]catalog.PrerequisiteMatch, 0)
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			logger.IncrCounter("subjects.failed")
			logger.Warn("Subject scan failed", logger.Fields{
				"search_id": searchID,
				"subject":   res.subject.Name,
				"url":       res.subject.URL,
				"error":     res.err.Error(),
			})
			continue
		}
		logger.IncrCounter("subjects.scanned")
		matches = append(matches, res.matches...)
	}

	elapsed := time.Since(start)
	logger.RecordTiming("search.all", elapsed)
	logger.Info("Search finished", logger.Fields{
		"search_id": searchID,
		"course":    name + " " + number,
		"subjects":  len(list),
		"failed":    failed,
		"matches":   len(matches),
		"elapsed":   elapsed.String(),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// scan runs one subject scan, turning a panic into an error
func (s *Service) scan(ctx context.Context, subject catalog.Subject, name, number string) (res taskResult) {
	res.subject = subject
	defer func() {
		if rec := recover(); rec != nil {
			res.matches = nil
			res.err = fmt.Errorf("scan panicked: %v", rec)
		}
	}()

	res.matches, res.err = s.source.ScanSubject(ctx, subject.URL, name, number)
	return res
}
