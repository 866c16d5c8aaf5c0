package models

import "time"

// ChangeType classifies a release entry
type ChangeType string

const (
	ChangeTypeFeature ChangeType = "feature"
	ChangeTypeFix     ChangeType = "fix"
	ChangeTypePerf    ChangeType = "perf"
	ChangeTypeRelease ChangeType = "release"
)

// ChangelogEntry is one released version of the platform
type ChangelogEntry struct {
	ID          int        `json:"id"`
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	Type        ChangeType `json:"type"`
	Keywords    []string   `json:"keywords"`
	ReleaseDate time.Time  `json:"releaseDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ChangelogRequest creates or replaces a changelog entry.
// ReleaseDate defaults to today when empty.
type ChangelogRequest struct {
	Version     string     `json:"version" validate:"required,max=32"`
	Title       string     `json:"title" validate:"required,notblank,max=255"`
	Type        ChangeType `json:"type" validate:"required,oneof=feature fix perf release"`
	Keywords    []string   `json:"keywords" validate:"dive,required,max=64"`
	ReleaseDate string     `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
}
