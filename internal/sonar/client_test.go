package sonar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// newTestServer wraps handler with the authentication check the client runs
// at creation time.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/authentication/validate" {
			_ = json.NewEncoder(w).Encode(map[string]bool{"valid": true})
			return
		}
		if handler == nil {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, ts *httptest.Server, creds Credentials) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), ts.URL, creds)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func tokenCreds() Credentials {
	return Credentials{Token: "squ_test123"}
}

func TestNewClientUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := NewClient(context.Background(), ts.URL, tokenCreds())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !IsConnection(err) {
		t.Errorf("expected connection kind, got %q", KindOf(err))
	}
}

func TestNewClientRejectedCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"valid": false})
	}))
	defer ts.Close()

	_, err := NewClient(context.Background(), ts.URL, tokenCreds())
	if err == nil {
		t.Fatal("expected error when the server rejects credentials")
	}
	if !IsConnection(err) {
		t.Errorf("expected connection kind, got %q", KindOf(err))
	}
}

func TestClientInjectsBearerAuth(t *testing.T) {
	var gotAuth string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, tokenCreds())
	if _, err := c.MetricTypes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer squ_test123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestClientInjectsBasicAuth(t *testing.T) {
	var user, pass string
	var ok bool
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, Credentials{Username: "admin", Password: "secret"})
	if _, err := c.MetricTypes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || user != "admin" || pass != "secret" {
		t.Errorf("basic auth = %q/%q (%v), want admin/secret", user, pass, ok)
	}
}

func TestClientInjectsOrganization(t *testing.T) {
	var gotOrg []string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotOrg = append(gotOrg, r.URL.Query().Get("organization"))
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, Credentials{Token: "squ_test123", Organization: "my-org"})
	if _, err := c.MetricTypes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Metrics(context.Background(), 1, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, org := range gotOrg {
		if org != "my-org" {
			t.Errorf("request %d: organization = %q, want %q", i, org, "my-org")
		}
	}
	if len(gotOrg) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(gotOrg))
	}
}

func TestClientOmitsOrganizationWhenUnset(t *testing.T) {
	var hadOrg bool
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("organization") {
			hadOrg = true
		}
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, tokenCreds())
	if _, err := c.MetricTypes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hadOrg {
		t.Error("organization must not be sent when not configured")
	}
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind Kind
	}{
		{name: "not found", status: http.StatusNotFound, wantKind: KindNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: KindAuthorization},
		{name: "forbidden", status: http.StatusForbidden, wantKind: KindAuthorization},
		{name: "server error", status: http.StatusInternalServerError, wantKind: KindTransient},
		{name: "rate limited", status: http.StatusTooManyRequests, wantKind: KindTransient},
		{name: "teapot", status: http.StatusTeapot, wantKind: KindRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"msg":"boom"}]}`))
			})

			c := newTestClient(t, ts, tokenCreds())
			_, err := c.MetricTypes(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("kind = %q, want %q", KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestClientRetriesTransientOnly(t *testing.T) {
	var serverErrors, notFounds int32
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics/search":
			atomic.AddInt32(&serverErrors, 1)
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/metrics/types":
			atomic.AddInt32(&notFounds, 1)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := newTestClient(t, ts, tokenCreds())

	if _, err := c.Metrics(context.Background(), 1, 20); !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if got := atomic.LoadInt32(&serverErrors); got != 1+maxRetries {
		t.Errorf("5xx attempts = %d, want %d", got, 1+maxRetries)
	}

	if _, err := c.MetricTypes(context.Background()); !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if got := atomic.LoadInt32(&notFounds); got != 1 {
		t.Errorf("404 attempts = %d, want 1 (never retried)", got)
	}
}

func TestClientRecoversAfterTransientFailure(t *testing.T) {
	var attempts int32
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"types":["INT"]}`))
	})

	c := newTestClient(t, ts, tokenCreds())
	raw, err := c.MetricTypes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"types":["INT"]}` {
		t.Errorf("unexpected body: %s", raw)
	}
}

func TestValidationRejectedBeforeNetwork(t *testing.T) {
	var calls int32
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, tokenCreds())
	ctx := context.Background()

	checks := []func() error{
		func() error { _, err := c.Metrics(ctx, 0, 20); return err },
		func() error { _, err := c.Metrics(ctx, 1, 21); return err },
		func() error { _, err := c.SearchIssues(ctx, IssueFilter{Page: 1, PageSize: 0}); return err },
		func() error { _, err := c.SearchRules(ctx, RuleFilter{Page: -1, PageSize: 20}); return err },
		func() error {
			_, err := c.ProjectHotspots(ctx, HotspotFilter{ProjectKey: "p", Page: 1, PageSize: 100})
			return err
		},
		func() error {
			_, err := c.FileIssues(ctx, FileIssuesParams{ProjectKey: "p", FilePath: "f", Page: 1, PageSize: 1000})
			return err
		},
	}

	for i, check := range checks {
		if err := check(); !IsValidation(err) {
			t.Errorf("check %d: expected validation error, got %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no network calls beyond the startup check, got %d", got)
	}
}

func TestSearchIssuesFilterEncoding(t *testing.T) {
	var query map[string][]string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})

	c := newTestClient(t, ts, tokenCreds())
	f := false
	_, err := c.SearchIssues(context.Background(), IssueFilter{
		Components: "demo:src/App.java",
		Severities: " BLOCKER , CRITICAL ",
		Types:      "",
		Resolved:   &f,
		Page:       2,
		PageSize:   10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"components": "demo:src/App.java",
		"severities": "BLOCKER,CRITICAL",
		"resolved":   "false",
		"p":          "2",
		"ps":         "10",
	}
	for key, val := range want {
		if got := query[key]; len(got) != 1 || got[0] != val {
			t.Errorf("%s = %v, want %q", key, got, val)
		}
	}
	if _, ok := query["types"]; ok {
		t.Error("empty types filter must be omitted")
	}
}
