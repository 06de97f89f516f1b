package github_test

import (
	"context"
	"testing"

	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		param   *github.Param
		isNil   bool
		baseURL string
	}{
		{
			name:  "no credentials",
			param: &github.Param{},
			isNil: true,
		},
		{
			name:    "token",
			param:   &github.Param{Token: "ghp_example"},
			baseURL: "https://api.github.com/",
		},
		{
			name:    "github.com API URL",
			param:   &github.Param{Token: "ghp_example", APIURL: "https://api.github.com"},
			baseURL: "https://api.github.com/",
		},
		{
			name:    "GitHub Enterprise Server",
			param:   &github.Param{Token: "ghp_example", APIURL: "https://ghes.example.com/api/v3/"},
			baseURL: "https://ghes.example.com/api/v3/",
		},
	}
	logE := logrus.NewEntry(logrus.New())
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			client, err := github.New(context.Background(), logE, d.param)
			if err != nil {
				t.Fatal(err)
			}
			if d.isNil {
				if client != nil {
					t.Fatal("client must be nil")
				}
				return
			}
			if client == nil {
				t.Fatal("client must not be nil")
			}
			if s := client.BaseURL.String(); s != d.baseURL {
				t.Errorf("wanted %s, got %s", d.baseURL, s)
			}
		})
	}
}
