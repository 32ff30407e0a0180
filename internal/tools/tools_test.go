package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"sonarqube-mcp/internal/sonar"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return tc.Text
}

// testClient stands up a fake SonarQube server and a client session against it.
func testClient(t *testing.T, handler http.HandlerFunc) *sonar.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/authentication/validate" {
			_, _ = w.Write([]byte(`{"valid": true}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	creds, err := sonar.ResolveCredentials("squ_test", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	c, err := sonar.NewClient(context.Background(), ts.URL, creds)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPaginationDefaults(t *testing.T) {
	page, pageSize := pagination(callRequest("x", map[string]any{}))
	if page != 1 || pageSize != sonar.MaxPageSize {
		t.Errorf("defaults = %d/%d, want 1/%d", page, pageSize, sonar.MaxPageSize)
	}

	page, pageSize = pagination(callRequest("x", map[string]any{
		"page":      float64(3),
		"page_size": float64(5),
	}))
	if page != 3 || pageSize != 5 {
		t.Errorf("explicit = %d/%d, want 3/5", page, pageSize)
	}
}

func TestOptionalBool(t *testing.T) {
	b, err := optionalBool(callRequest("x", map[string]any{}), "resolved")
	if err != nil || b != nil {
		t.Errorf("absent: got %v, %v; want nil, nil", b, err)
	}

	b, err = optionalBool(callRequest("x", map[string]any{"resolved": true}), "resolved")
	if err != nil || b == nil || !*b {
		t.Errorf("true: got %v, %v", b, err)
	}

	b, err = optionalBool(callRequest("x", map[string]any{"resolved": false}), "resolved")
	if err != nil || b == nil || *b {
		t.Errorf("false: got %v, %v", b, err)
	}

	if _, err = optionalBool(callRequest("x", map[string]any{"resolved": "yes"}), "resolved"); err == nil {
		t.Error("string value: expected type error")
	}
}

func TestOptionalInt(t *testing.T) {
	n, err := optionalInt(callRequest("x", map[string]any{}), "start")
	if err != nil || n != nil {
		t.Errorf("absent: got %v, %v; want nil, nil", n, err)
	}

	n, err = optionalInt(callRequest("x", map[string]any{"start": float64(7)}), "start")
	if err != nil || n == nil || *n != 7 {
		t.Errorf("present: got %v, %v", n, err)
	}

	if _, err = optionalInt(callRequest("x", map[string]any{"start": "7"}), "start"); err == nil {
		t.Error("string value: expected type error")
	}
}

func TestFileIssuesInformationToolDefinition(t *testing.T) {
	tool := getFileIssuesInformationTool()

	if tool.Name != "get_file_issues_information" {
		t.Errorf("name = %q", tool.Name)
	}
	for _, want := range []string{"project_key", "file_path"} {
		found := false
		for _, req := range tool.InputSchema.Required {
			if req == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%s missing from required arguments", want)
		}
	}
	for _, prop := range []string{"include_source", "page", "page_size"} {
		if _, ok := tool.InputSchema.Properties[prop]; !ok {
			t.Errorf("%s missing from properties", prop)
		}
	}
}

func TestHandleGetFileIssuesInformation(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/issues/search":
			_, _ = w.Write([]byte(`{
				"paging": {"pageIndex": 1, "pageSize": 20, "total": 1},
				"issues": [{"key": "i1", "rule": "java:S100", "line": 10,
					"textRange": {"startLine": 10, "endLine": 10}}]
			}`))
		case "/api/rules/show":
			_, _ = w.Write([]byte(`{"rule": {"key": "java:S100", "name": "Naming"}}`))
		case "/api/sources/issue_snippets":
			_, _ = w.Write([]byte(`{"demo:src/App.java": {"startLine": 8, "endLine": 12, "sources": []}}`))
		default:
			http.NotFound(w, r)
		}
	})

	handle := handleGetFileIssuesInformation(c)
	res, err := handle(context.Background(), callRequest("get_file_issues_information", map[string]any{
		"project_key":    "demo",
		"file_path":      "src/App.java",
		"include_source": false,
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var report sonar.FileIssuesReport
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Component != "demo:src/App.java" {
		t.Errorf("component = %q", report.Component)
	}
	if len(report.Issues) != 1 || report.Issues[0].Rule == nil {
		t.Errorf("unexpected report entries: %+v", report.Issues)
	}
	if report.Source != "" {
		t.Error("source included despite include_source=false")
	}
}

func TestHandleGetFileIssuesInformationMissingArgs(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without required arguments")
	})

	handle := handleGetFileIssuesInformation(c)
	res, err := handle(context.Background(), callRequest("get_file_issues_information", map[string]any{
		"file_path": "src/App.java",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for a missing project_key")
	}
}

func TestHandlerSurfacesClientErrors(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors": [{"msg": "Insufficient privileges"}]}`))
	})

	handle := handleGetSourceRaw(c)
	res, err := handle(context.Background(), callRequest("get_source_raw", map[string]any{
		"project_key": "demo",
		"file_path":   "src/App.java",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error")
	}
	msg := resultText(t, res)
	if !strings.Contains(msg, "authorization") || !strings.Contains(msg, "Insufficient privileges") {
		t.Errorf("error text = %q, want taxonomy kind and server message", msg)
	}
}

func TestPageBoundsRejectedBeforeNetwork(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for out-of-bounds pagination")
	})

	handle := handleGetFileIssuesInformation(c)
	res, err := handle(context.Background(), callRequest("get_file_issues_information", map[string]any{
		"project_key": "demo",
		"file_path":   "src/App.java",
		"page_size":   float64(50),
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for page_size above the cap")
	}
	if msg := resultText(t, res); !strings.Contains(msg, "validation") {
		t.Errorf("error text = %q, want validation kind", msg)
	}
}
