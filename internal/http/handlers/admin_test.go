package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	appfeeds "github.com/preston-bernstein/league-ics/internal/app/feeds"
	"github.com/preston-bernstein/league-ics/internal/testutil"
)

type stubRefresher struct {
	report appfeeds.RunReport
	err    error
	calls  int
}

func (s *stubRefresher) RunOnce(ctx context.Context) (appfeeds.RunReport, error) {
	_ = ctx
	s.calls++
	return s.report, s.err
}

func refreshRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/refresh", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminRefreshRequiresAuth(t *testing.T) {
	refresher := &stubRefresher{}
	h := NewAdminHandler(refresher, "secret", nil)

	for _, token := range []string{"", "wrong"} {
		rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), refreshRequest(token))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
	if refresher.calls != 0 {
		t.Fatalf("expected no refresh without auth, got %d", refresher.calls)
	}
}

func TestAdminRefreshDisabledWithoutToken(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{}, "", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), refreshRequest(""))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminRefreshRequiresPost(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{}, "secret", nil)
	req := httptest.NewRequest(http.MethodGet, "/admin/refresh", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), req)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestAdminRefreshRunsAndReturnsReport(t *testing.T) {
	refresher := &stubRefresher{report: appfeeds.RunReport{Teams: []appfeeds.TeamReport{
		{Slug: "skinners", Status: appfeeds.StatusWritten, Events: 3},
	}}}
	h := NewAdminHandler(refresher, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), refreshRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var report appfeeds.RunReport
	testutil.DecodeJSON(t, rr, &report)
	if refresher.calls != 1 || len(report.Teams) != 1 || report.Teams[0].Events != 3 {
		t.Fatalf("unexpected report %+v calls=%d", report, refresher.calls)
	}
}

func TestAdminRefreshFailureStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{appfeeds.ErrAllTeamsFailed, http.StatusBadGateway},
		{context.Canceled, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		h := NewAdminHandler(&stubRefresher{err: tc.err}, "secret", nil)
		rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), refreshRequest("secret"))
		testutil.AssertStatus(t, rr, tc.want)
	}
}

func TestAdminRefreshWithoutRefresher(t *testing.T) {
	h := NewAdminHandler(nil, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), refreshRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}
