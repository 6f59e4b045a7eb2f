package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const customersFixture = `
- id: cus-1
  name: Dana Whitfield
  email: dana@acme.io
  company: Acme
  segment: enterprise
  status: Active
  lifetime_value: "48200"
  orders: 37
  created_at: 2022-04-11T10:00:00Z
- id: cus-2
  name: Omar Haddad
  email: omar@globex.com
  company: Globex
  segment: smb
  status: Active
  lifetime_value: "3150"
  orders: 9
  created_at: 2023-02-02T12:00:00Z
- id: cus-3
  name: Mei Tanaka
  email: mei@example.com
  segment: consumer
  status: Active
  lifetime_value: "640"
  orders: 6
  created_at: 2023-11-20T19:00:00Z
- id: cus-4
  name: Lucas Moreau
  email: lucas@initech.fr
  company: Initech
  segment: enterprise
  status: Churned
  lifetime_value: "22100"
  orders: 14
  created_at: 2021-07-07T07:00:00Z
`

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "customers.yaml"), []byte(customersFixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type jsonPage struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
	TotalMatched int      `json:"totalMatched"`
	TotalPages   int      `json:"totalPages"`
	Page         int      `json:"page"`
	Selection    []string `json:"selection"`
}

func ids(p jsonPage) []string {
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.ID
	}
	return out
}

func TestQuery_JSON(t *testing.T) {
	dir := seedDir(t)

	tests := []struct {
		name          string
		args          []string
		wantIDs       []string
		wantSelection []string
	}{
		{
			name:          "search",
			args:          []string{"-s", "ACME"},
			wantIDs:       []string{"cus-1"},
			wantSelection: []string{},
		},
		{
			name:          "facet and sort",
			args:          []string{"--facet", "segment:enterprise", "--sort", "lifetimeValue", "--desc"},
			wantIDs:       []string{"cus-1", "cus-4"},
			wantSelection: []string{},
		},
		{
			name:          "select all matched",
			args:          []string{"--range", "lifetimeValue:1000:", "--select-all", "matched", "--size", "1"},
			wantIDs:       []string{"cus-1"},
			wantSelection: []string{"cus-1", "cus-2", "cus-4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"query", "customers", "--seed-dir", dir, "-o", "json"}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("query: %v\n%s", err, out)
			}
			var got jsonPage
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decode output: %v\n%s", err, out)
			}
			if diff := cmp.Diff(tt.wantIDs, ids(got)); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSelection, got.Selection); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuery_Table(t *testing.T) {
	out, err := run(t, "query", "customers", "--seed-dir", seedDir(t), "--range", "lifetimeValue:1000:")
	if err != nil {
		t.Fatalf("query: %v\n%s", err, out)
	}
	for _, want := range []string{"ID", "LIFETIMEVALUE", "cus-2", "3150", "3 matched, page 1 of 1, 0 selected"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cus-3") {
		t.Errorf("cus-3 is below the range:\n%s", out)
	}
}

func TestQuery_Errors(t *testing.T) {
	dir := seedDir(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown dataset", []string{"query", "orders", "--seed-dir", dir}, "orders"},
		{"unknown output", []string{"query", "customers", "--seed-dir", dir, "-o", "xml"}, "unknown output"},
		{"bad facet", []string{"query", "customers", "--seed-dir", dir, "--facet", "segment"}, "facet"},
		{"bad select all", []string{"query", "customers", "--seed-dir", dir, "--select-all", "everything"}, "selectAll"},
		{"missing dataset arg", []string{"query", "--seed-dir", dir}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDatasets(t *testing.T) {
	out, err := run(t, "datasets", "--seed-dir", seedDir(t))
	if err != nil {
		t.Fatalf("datasets: %v\n%s", err, out)
	}
	for _, want := range []string{"DATASET", "campaigns", "customers", "name:string*", "lifetimeValue:number"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "listquery ") {
		t.Errorf("output = %q", out)
	}
}
