package config

import (
	"errors"
	"testing"
)

func TestValidateTeamsRejectsDuplicateSlugs(t *testing.T) {
	teams := []TeamConfig{
		{Slug: "dup", TeamIDs: []int{1}},
		{Slug: "unique", TeamIDs: []int{2}},
		{Slug: "dup", TeamNames: []string{"Other"}},
	}

	valid, errs := ValidateTeams(teams, "UTC")
	if len(valid) != 1 || valid[0].Slug != "unique" {
		t.Fatalf("expected only the unique team to survive, got %+v", valid)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 configuration errors, got %d", len(errs))
	}
	for _, err := range errs {
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigurationError, got %T", err)
		}
		if cfgErr.Slug != "dup" || cfgErr.Reason != "duplicate slug" {
			t.Fatalf("unexpected error %+v", cfgErr)
		}
	}
}

func TestValidateTeamCases(t *testing.T) {
	cases := []struct {
		name string
		team TeamConfig
		ok   bool
	}{
		{"ids only", TeamConfig{Slug: "a", TeamIDs: []int{1}}, true},
		{"names only", TeamConfig{Slug: "a", TeamNames: []string{"A"}}, true},
		{"no matchers", TeamConfig{Slug: "a"}, false},
		{"missing slug", TeamConfig{TeamIDs: []int{1}}, false},
		{"path slug", TeamConfig{Slug: "../a", TeamIDs: []int{1}}, false},
		{"bad timezone", TeamConfig{Slug: "a", TeamIDs: []int{1}, Timezone: "Mars/Olympus"}, false},
	}

	for _, tc := range cases {
		err := ValidateTeam(0, tc.team, "UTC")
		if tc.ok && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected configuration error", tc.name)
		}
	}
}

func TestValidateTeamsRejectsInvalidDefaultTimezone(t *testing.T) {
	teams := []TeamConfig{
		{Slug: "inherits", TeamIDs: []int{1}},
		{Slug: "overrides", TeamIDs: []int{2}, Timezone: "UTC"},
	}

	valid, errs := ValidateTeams(teams, "Not/AZone")
	if len(valid) != 1 || valid[0].Slug != "overrides" {
		t.Fatalf("expected only the team with its own timezone to survive, got %+v", valid)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	if got := (TeamConfig{Slug: "s", Name: "Name", CalendarName: "Cal"}).DisplayName(); got != "Cal" {
		t.Fatalf("expected calendar name, got %s", got)
	}
	if got := (TeamConfig{Slug: "s", Name: "Name"}).DisplayName(); got != "Name" {
		t.Fatalf("expected team name, got %s", got)
	}
	if got := (TeamConfig{Slug: "s"}).DisplayName(); got != "s" {
		t.Fatalf("expected slug, got %s", got)
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Index: 3, Reason: "slug is required"}
	if err.Error() != "config: team #3: slug is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	err = &ConfigurationError{Index: 3, Slug: "x", Reason: "duplicate slug"}
	if err.Error() != `config: team "x": duplicate slug` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestConfigValidTeamsUsesDefaultTimezone(t *testing.T) {
	cfg := Config{
		DefaultTimezone: "America/Chicago",
		Teams: []TeamConfig{
			{Slug: "ok", TeamIDs: []int{1}},
			{Slug: "bad"},
		},
	}
	valid, errs := cfg.ValidTeams()
	if len(valid) != 1 || valid[0].Slug != "ok" || len(errs) != 1 {
		t.Fatalf("expected one valid and one rejected team, got %+v / %v", valid, errs)
	}
}
