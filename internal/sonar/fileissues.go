package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// snippetContextLines is the window derived around an issue's line when
	// the server returns a snippet without explicit bounds.
	snippetContextLines = 2

	// aggregationConcurrency caps in-flight rule and snippet sub-fetches per
	// aggregation call, keeping latency low without tripping server rate
	// limits.
	aggregationConcurrency = 4
)

// FileIssuesParams scopes one aggregation call.
type FileIssuesParams struct {
	ProjectKey    string
	FilePath      string
	IncludeSource bool
	Page          int
	PageSize      int
}

// FileIssuesReport is the assembled per-file report: every issue on the page
// with its rule definition and a contextual snippet, in the exact order the
// issue search returned them, plus the unchanged pagination metadata and,
// optionally, the full file source.
type FileIssuesReport struct {
	Component string           `json:"component"`
	Paging    json.RawMessage  `json:"paging,omitempty"`
	Issues    []FileIssueEntry `json:"issues"`
	Source    string           `json:"source,omitempty"`
}

// FileIssueEntry pairs one issue with its lazily fetched context. Rule is
// null when the rule lookup failed; the failure never aborts the report.
type FileIssueEntry struct {
	Issue   json.RawMessage `json:"issue"`
	Rule    json.RawMessage `json:"rule"`
	Snippet *Snippet        `json:"snippet,omitempty"`
}

// Snippet is a contiguous block of source lines around an issue. StartLine
// and EndLine are always populated: bounds the server omitted are derived
// from the issue's own location.
type Snippet struct {
	StartLine int             `json:"startLine"`
	EndLine   int             `json:"endLine"`
	Sources   json.RawMessage `json:"sources,omitempty"`
	// Derived marks bounds inferred from the issue location rather than
	// reported by the server.
	Derived bool `json:"derived,omitempty"`
	// Error records a failed snippet sub-fetch without failing the report.
	Error string `json:"error,omitempty"`
}

// issuePage is the slice of the search response the aggregation needs; issue
// records stay raw so the report forwards them verbatim.
type issuePage struct {
	Paging json.RawMessage   `json:"paging"`
	Issues []json.RawMessage `json:"issues"`
}

// issueRef carries the structural fields the sub-fetches key off.
type issueRef struct {
	Key       string `json:"key"`
	Rule      string `json:"rule"`
	Line      int    `json:"line"`
	TextRange struct {
		StartLine int `json:"startLine"`
		EndLine   int `json:"endLine"`
	} `json:"textRange"`
}

// FileIssues gathers issues, rule definitions, contextual snippets and
// optionally the full source for one file into a single report.
//
// The issue search is the primary fetch: its failure fails the call. Rule
// details are fetched at most once per distinct rule key and snippets once
// per issue, concurrently under a small limit; an individual sub-fetch
// failure is recorded inline and the report still returned. Cancelling ctx
// abandons all outstanding sub-fetches.
func (c *Client) FileIssues(ctx context.Context, p FileIssuesParams) (*FileIssuesReport, error) {
	if p.ProjectKey == "" || p.FilePath == "" {
		return nil, errValidation("project key and file path are required")
	}
	if err := checkPage(p.Page, p.PageSize); err != nil {
		return nil, err
	}

	component := ComponentKey(p.ProjectKey, p.FilePath)

	raw, err := c.SearchIssues(ctx, IssueFilter{
		Components: component,
		Page:       p.Page,
		PageSize:   p.PageSize,
	})
	if err != nil {
		return nil, err
	}

	var page issuePage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, wrapError(KindRemote, "issue search returned an unexpected body", err)
	}

	refs := make([]issueRef, len(page.Issues))
	for i, rawIssue := range page.Issues {
		if err := json.Unmarshal(rawIssue, &refs[i]); err != nil {
			return nil, wrapError(KindRemote, "issue record is malformed", err)
		}
	}

	var (
		mu       sync.Mutex
		rules    = map[string]json.RawMessage{}
		snippets = make([]*Snippet, len(refs))
		source   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregationConcurrency)

	for _, key := range distinctRuleKeys(refs) {
		g.Go(func() error {
			detail, err := c.fetchRule(gctx, key)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				detail = nil // recorded as unavailable
			}
			mu.Lock()
			rules[key] = detail
			mu.Unlock()
			return nil
		})
	}

	for i, ref := range refs {
		g.Go(func() error {
			snip := c.fetchSnippet(gctx, component, ref)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			snippets[i] = snip
			mu.Unlock()
			return nil
		})
	}

	if p.IncludeSource {
		// One fetch for the whole report rather than per issue.
		g.Go(func() error {
			src, err := c.RawSource(gctx, component)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return nil // report proceeds without source
			}
			mu.Lock()
			source = src
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, wrapError(KindConnection, "aggregation canceled", err)
	}

	report := &FileIssuesReport{
		Component: component,
		Paging:    page.Paging,
		Issues:    make([]FileIssueEntry, len(refs)),
		Source:    source,
	}
	for i, ref := range refs {
		report.Issues[i] = FileIssueEntry{
			Issue:   page.Issues[i],
			Rule:    rules[ref.Rule],
			Snippet: snippets[i],
		}
	}
	return report, nil
}

func distinctRuleKeys(refs []issueRef) []string {
	seen := map[string]bool{}
	var keys []string
	for _, ref := range refs {
		if ref.Rule != "" && !seen[ref.Rule] {
			seen[ref.Rule] = true
			keys = append(keys, ref.Rule)
		}
	}
	return keys
}

// fetchRule unwraps the rule object from api/rules/show.
func (c *Client) fetchRule(ctx context.Context, ruleKey string) (json.RawMessage, error) {
	raw, err := c.RuleDetails(ctx, ruleKey, false)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Rule json.RawMessage `json:"rule"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Rule) == 0 {
		return raw, nil
	}
	return envelope.Rule, nil
}

// fetchSnippet retrieves the snippet for one issue and guarantees usable line
// bounds, deriving them from the issue's own location when the server omits
// startLine/endLine.
func (c *Client) fetchSnippet(ctx context.Context, component string, ref issueRef) *Snippet {
	raw, err := c.IssueSnippets(ctx, ref.Key)
	if err != nil {
		snip := deriveSnippet(ref)
		snip.Error = fmt.Sprintf("snippet fetch failed: %v", err)
		return snip
	}
	return parseSnippet(raw, component, ref)
}

// snippetBlock is one component's snippet in the issue_snippets response.
type snippetBlock struct {
	StartLine *int            `json:"startLine"`
	EndLine   *int            `json:"endLine"`
	Sources   json.RawMessage `json:"sources"`
}

// parseSnippet picks the block for the requested component (falling back to
// any block) and reconciles the bounds.
func parseSnippet(raw json.RawMessage, component string, ref issueRef) *Snippet {
	var blocks map[string]snippetBlock
	if err := json.Unmarshal(raw, &blocks); err != nil || len(blocks) == 0 {
		return deriveSnippet(ref)
	}

	block, ok := blocks[component]
	if !ok {
		for _, b := range blocks {
			block = b
			break
		}
	}

	if block.StartLine != nil && block.EndLine != nil {
		return &Snippet{
			StartLine: *block.StartLine,
			EndLine:   *block.EndLine,
			Sources:   block.Sources,
		}
	}

	snip := deriveSnippet(ref)
	snip.Sources = block.Sources
	return snip
}

// deriveSnippet infers a line window from the issue's reported location: the
// text range when present, otherwise a fixed window centered on the issue
// line and clamped to line 1.
func deriveSnippet(ref issueRef) *Snippet {
	start, end := ref.TextRange.StartLine, ref.TextRange.EndLine
	if start < 1 {
		start, end = ref.Line, ref.Line
	}
	if start < 1 {
		start, end = 1, 1
	}
	if end < start {
		end = start
	}

	start -= snippetContextLines
	if start < 1 {
		start = 1
	}
	end += snippetContextLines

	return &Snippet{StartLine: start, EndLine: end, Derived: true}
}
