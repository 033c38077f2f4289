package config

import (
	"fmt"
	"strings"
	"time"
)

// TeamConfig identifies one subscription feed.
type TeamConfig struct {
	Name         string   `yaml:"name" toml:"name"`
	Slug         string   `yaml:"slug" toml:"slug"`
	League       string   `yaml:"league_name" toml:"league_name"`
	APIURL       string   `yaml:"api_url" toml:"api_url"`
	TeamIDs      []int    `yaml:"my_team_ids" toml:"my_team_ids"`
	TeamNames    []string `yaml:"my_team_names" toml:"my_team_names"`
	Timezone     string   `yaml:"timezone" toml:"timezone"`
	CalendarName string   `yaml:"calendar_name" toml:"calendar_name"`
}

// DisplayName is the calendar name shown to subscribers.
func (t TeamConfig) DisplayName() string {
	if name := strings.TrimSpace(t.CalendarName); name != "" {
		return name
	}
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return t.Slug
}

// HasID reports whether id is one of the team's upstream ids.
func (t TeamConfig) HasID(id int) bool {
	for _, v := range t.TeamIDs {
		if v == id {
			return true
		}
	}
	return false
}

// HasName reports whether name exactly matches one of the team's upstream names.
func (t TeamConfig) HasName(name string) bool {
	for _, v := range t.TeamNames {
		if v == name {
			return true
		}
	}
	return false
}

// ConfigurationError marks a team entry that cannot produce a feed.
type ConfigurationError struct {
	Index  int
	Slug   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("config: team #%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("config: team %q: %s", e.Slug, e.Reason)
}

// ValidateTeam checks a single entry in isolation. defaultTZ is used when the entry has no override.
func ValidateTeam(index int, team TeamConfig, defaultTZ string) error {
	slug := strings.TrimSpace(team.Slug)
	if slug == "" {
		return &ConfigurationError{Index: index, Reason: "slug is required"}
	}
	if strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return &ConfigurationError{Index: index, Slug: slug, Reason: "slug must be a plain file name"}
	}
	if len(team.TeamIDs) == 0 && len(team.TeamNames) == 0 {
		return &ConfigurationError{Index: index, Slug: slug, Reason: "at least one of my_team_ids or my_team_names is required"}
	}
	tz := team.Timezone
	if tz == "" {
		tz = defaultTZ
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return &ConfigurationError{Index: index, Slug: slug, Reason: fmt.Sprintf("invalid timezone %q", tz)}
	}
	return nil
}

// ValidateTeams splits teams into usable entries and per-team configuration errors.
// Every entry sharing a duplicated slug is rejected, since any one of them would overwrite the others.
func ValidateTeams(teams []TeamConfig, defaultTZ string) ([]TeamConfig, []error) {
	counts := make(map[string]int, len(teams))
	for _, t := range teams {
		counts[strings.TrimSpace(t.Slug)]++
	}

	valid := make([]TeamConfig, 0, len(teams))
	var errs []error
	for i, t := range teams {
		if err := ValidateTeam(i, t, defaultTZ); err != nil {
			errs = append(errs, err)
			continue
		}
		slug := strings.TrimSpace(t.Slug)
		if counts[slug] > 1 {
			errs = append(errs, &ConfigurationError{Index: i, Slug: slug, Reason: "duplicate slug"})
			continue
		}
		t.Slug = slug
		valid = append(valid, t)
	}
	return valid, errs
}
