package sonar

import (
	"net/url"
	"reflect"
	"testing"
)

func TestCheckPage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantErr  bool
	}{
		{name: "valid defaults", page: 1, pageSize: 20},
		{name: "valid mid-range", page: 3, pageSize: 10},
		{name: "smallest page size", page: 1, pageSize: 1},
		{name: "zero page", page: 0, pageSize: 20, wantErr: true},
		{name: "negative page", page: -1, pageSize: 20, wantErr: true},
		{name: "zero page size", page: 1, pageSize: 0, wantErr: true},
		{name: "page size over cap", page: 1, pageSize: 21, wantErr: true},
		{name: "page size far over cap", page: 1, pageSize: 500, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPage(tt.page, tt.pageSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !IsValidation(err) {
					t.Errorf("expected validation kind, got %q", KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a,b,c", want: []string{"a", "b", "c"}},
		{in: "a, ,b", want: []string{"a", "b"}},
		{in: "  a  ,  b  ", want: []string{"a", "b"}},
		{in: ",,,", want: nil},
		{in: "single", want: []string{"single"}},
	}

	for _, tt := range tests {
		got := splitList(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetListOmitsEmptyFilters(t *testing.T) {
	params := url.Values{}
	setList(params, "severities", "")
	setList(params, "types", " , ")
	setList(params, "tags", "security, bug")

	if _, ok := params["severities"]; ok {
		t.Error("empty filter should be omitted, not sent as an empty string")
	}
	if _, ok := params["types"]; ok {
		t.Error("all-blank filter should be omitted")
	}
	if got := params.Get("tags"); got != "security,bug" {
		t.Errorf("tags = %q, want %q", got, "security,bug")
	}
}

func TestSetBoolTristate(t *testing.T) {
	params := url.Values{}
	setBool(params, "assigned", nil)
	if _, ok := params["assigned"]; ok {
		t.Error("nil boolean should be omitted")
	}

	f := false
	setBool(params, "assigned", &f)
	if got := params.Get("assigned"); got != "false" {
		t.Errorf("assigned = %q, want %q", got, "false")
	}
}
