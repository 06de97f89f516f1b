package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gogithub "github.com/google/go-github/v74/github"
	"github.com/lawlink-oss/refcheck/pkg/controller/report"
	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type failingIssues struct{}

func (failingIssues) Create(context.Context, string, string, *github.IssueRequest) (*github.Issue, *github.Response, error) {
	return nil, nil, errors.New("POST https://api.github.com/repos/o/r/issues: 403 Resource not accessible by integration")
}

func TestController_CreateIssue_fallback(t *testing.T) {
	t.Parallel()
	data := []struct {
		name   string
		issues report.IssuesService
		repo   string
	}{
		{name: "no token", issues: nil, repo: "lawlink-oss/reference-data"},
		{name: "invalid repository", issues: failingIssues{}, repo: "reference-data"},
		{name: "API error", issues: failingIssues{}, repo: "lawlink-oss/reference-data"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			stdout := &bytes.Buffer{}
			ctrl := report.New(afero.NewMemMapFs(), stdout, d.issues, &report.Param{Repository: d.repo})
			u := ctrl.CreateIssue(context.Background(), newLogE(), "Reference data review — 2026-Q4", "the body\n")
			if u != "" {
				t.Errorf("wanted no URL, got %q", u)
			}
			exp := "# Reference data review — 2026-Q4\n\nthe body\n"
			if got := stdout.String(); got != exp {
				t.Errorf("wanted %q, got %q", exp, got)
			}
		})
	}
}

func TestController_CreateIssue(t *testing.T) {
	t.Parallel()
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/lawlink-oss/reference-data/issues", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number":7,"html_url":"https://github.com/lawlink-oss/reference-data/issues/7"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := gogithub.NewClient(nil)
	baseURL, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	client.BaseURL = baseURL

	stdout := &bytes.Buffer{}
	ctrl := report.New(afero.NewMemMapFs(), stdout, client.Issues, &report.Param{
		Repository: "lawlink-oss/reference-data",
		Labels:     []string{"reference-data", "review"},
	})
	u := ctrl.CreateIssue(context.Background(), newLogE(), "Reference data review — 2026-Q4", "the body\n")
	if u != "https://github.com/lawlink-oss/reference-data/issues/7" {
		t.Errorf("unexpected URL: %q", u)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing must be printed to stdout: %s", stdout.String())
	}
	exp := map[string]any{
		"title":  "Reference data review — 2026-Q4",
		"body":   "the body\n",
		"labels": []any{"reference-data", "review"},
	}
	if d := cmp.Diff(exp, got); d != "" {
		t.Fatal(d)
	}
}

func TestController_CreateIssue_noLabels(t *testing.T) {
	t.Parallel()
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number":8}`))
	}))
	t.Cleanup(srv.Close)
	client := gogithub.NewClient(nil)
	client.BaseURL, _ = url.Parse(srv.URL + "/")
	ctrl := report.New(afero.NewMemMapFs(), io.Discard, client.Issues, &report.Param{Repository: "o/r"})
	ctrl.CreateIssue(context.Background(), newLogE(), "t", "b")
	if strings.Contains(raw, "labels") {
		t.Errorf("labels must be omitted: %s", raw)
	}
}
