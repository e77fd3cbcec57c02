package domain

import (
	"errors"
	"fmt"
)

// ErrNotesNotFound is returned when the release notes file for a version does not exist.
var ErrNotesNotFound = errors.New("release notes not found")

// ErrNotesEncoding is returned when a release notes file is not valid UTF-8.
var ErrNotesEncoding = errors.New("release notes are not valid UTF-8")

// ReleaseDescriptor holds everything needed to create one release record.
// It is built once per run from the environment and the notes file.
type ReleaseDescriptor struct {
	APIBase     string
	AuthToken   string
	ProjectID   string
	Version     string
	Description string
}

// Request builds the wire payload. Name and tag both carry the version verbatim.
func (d *ReleaseDescriptor) Request() ReleaseRequest {
	return ReleaseRequest{
		Name:        d.Version,
		TagName:     d.Version,
		Description: d.Description,
	}
}

// ReleaseRequest is the JSON body sent to the release API.
type ReleaseRequest struct {
	Name        string `json:"name"`
	TagName     string `json:"tag_name"`
	Description string `json:"description"`
}

// ReleaseResponse is the raw outcome of a release API call.
type ReleaseResponse struct {
	StatusCode int
	Body       string
	URL        string
}

// Failed reports whether the API answered with a client or server error.
func (r *ReleaseResponse) Failed() bool {
	return r.StatusCode >= 400
}

// Err returns an *APIError for failed responses and nil otherwise.
func (r *ReleaseResponse) Err() error {
	if !r.Failed() {
		return nil
	}
	return &APIError{StatusCode: r.StatusCode, URL: r.URL}
}

// APIError is returned when the release API answers with a 4xx or 5xx status.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("release API responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s responded with status %d", e.URL, e.StatusCode)
}
