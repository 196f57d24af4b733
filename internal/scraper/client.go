package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
	"github.com/pfrederiksen/calendar-prereqs/internal/logger"
)

const (
	UserAgent = "calendar-prereqs/1.0 (github.com/pfrederiksen/calendar-prereqs)"
	Timeout   = 30 * time.Second
)

// FetchError reports a page that answered with a non-success status
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status code %d", e.URL, e.StatusCode)
}

// Client fetches calendar pages
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a Client. A zero timeout leaves fetches unbounded and an empty
// userAgent falls back to UserAgent.
func New(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// FetchPage issues a single GET for url and returns the response body.
// Non-2xx responses fail with *FetchError. Nothing is cached or retried.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch.page", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.IncrCounter("pages.failed")
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.IncrCounter("pages.failed")
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.IncrCounter("pages.failed")
		return nil, fmt.Errorf("reading page: %w", err)
	}

	logger.IncrCounter("pages.fetched")
	logger.Debug("Fetched page", logger.Fields{
		"url":   url,
		"bytes": len(body),
	})

	return body, nil
}

// FetchSubjects fetches the directory page and extracts its subjects
func (c *Client) FetchSubjects(ctx context.Context, directoryURL string, excluded []string) (*catalog.SubjectMap, error) {
	body, err := c.FetchPage(ctx, directoryURL)
	if err != nil {
		return nil, err
	}
	return ExtractSubjects(bytes.NewReader(body), directoryURL, excluded)
}

// FetchCourses fetches a subject page and extracts its courses
func (c *Client) FetchCourses(ctx context.Context, subjectURL string) ([]catalog.Course, error) {
	body, err := c.FetchPage(ctx, subjectURL)
	if err != nil {
		return nil, err
	}
	return ExtractCourses(bytes.NewReader(body), subjectURL)
}

// ScanSubject fetches a subject page and returns the courses on it that list
// name+number as a prerequisite. Only the fetch can fail.
func (c *Client) ScanSubject(ctx context.Context, subjectURL, name, number string) ([]catalog.PrerequisiteMatch, error) {
	body, err := c.FetchPage(ctx, subjectURL)
	if err != nil {
		return nil, err
	}
	return FindPrerequisiteMatches(bytes.NewReader(body), subjectURL, name, number), nil
}
