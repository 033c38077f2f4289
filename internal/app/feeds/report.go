package feeds

import (
	"errors"
	"fmt"
	"time"
)

// TeamStatus is the outcome of one team in a run.
type TeamStatus string

const (
	StatusWritten      TeamStatus = "written"
	StatusUnchanged    TeamStatus = "unchanged"
	StatusNoData       TeamStatus = "no_data"
	StatusConfigError  TeamStatus = "config_error"
	StatusFailed       TeamStatus = "failed"
	StatusPublishError TeamStatus = "publish_error"
)

// TeamReport summarizes one team's feed generation.
type TeamReport struct {
	Slug       string     `json:"slug"`
	Status     TeamStatus `json:"status"`
	Events     int        `json:"events"`
	Dropped    int        `json:"dropped"`
	Duplicates int        `json:"duplicates"`
	Error      string     `json:"error,omitempty"`

	err error
}

// OK reports whether the team's feed is current after the run.
func (t TeamReport) OK() bool {
	return t.Status == StatusWritten || t.Status == StatusUnchanged
}

// Err returns the failure behind a non-OK status.
func (t TeamReport) Err() error {
	return t.err
}

// RunReport summarizes a full generation run. Teams are listed in configuration order.
type RunReport struct {
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Teams      []TeamReport `json:"teams"`
}

// Duration is the wall time of the run.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded counts teams whose feed is current.
func (r RunReport) Succeeded() int {
	n := 0
	for _, t := range r.Teams {
		if t.OK() {
			n++
		}
	}
	return n
}

// Failed counts teams whose feed could not be produced.
func (r RunReport) Failed() int {
	return len(r.Teams) - r.Succeeded()
}

// Err joins every team failure, or returns nil when all teams succeeded.
func (r RunReport) Err() error {
	var errs []error
	for _, t := range r.Teams {
		if t.OK() {
			continue
		}
		err := t.err
		if err == nil {
			err = errors.New(t.Error)
		}
		errs = append(errs, fmt.Errorf("%s: %w", t.Slug, err))
	}
	return errors.Join(errs...)
}

func failedTeam(slug string, status TeamStatus, err error) TeamReport {
	return TeamReport{Slug: slug, Status: status, Error: err.Error(), err: err}
}
