package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/parser"
)

func TestParseGrantees(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name    string
		payload string
		exp     []parser.Grantee
		wantErr error
	}{
		{
			name:    "bare array",
			payload: `[{"name":"Acme Legal Aid","city":"Denver","state":"CO","phone":3035550100},{"name":"","city":"x"}]`,
			exp:     []parser.Grantee{{Name: "Acme Legal Aid", City: "Denver", State: "CO", Phone: "3035550100"}},
		},
		{
			name:    "wrapped",
			payload: ` {"grantees":[{"granteeName":"Florence Project","url":"https://firrp.org","active":true}]}`,
			exp:     []parser.Grantee{{Name: "Florence Project", Website: "https://firrp.org"}},
		},
		{
			name:    "entries without a name are dropped",
			payload: `[{"city":"Nowhere"},{"name":null}]`,
			exp:     []parser.Grantee{},
		},
		{
			name:    "object without grantees",
			payload: `{"data":[]}`,
			wantErr: parser.ErrUnexpectedGranteeShape,
		},
		{
			name:    "not JSON",
			payload: `<html>`,
			wantErr: parser.ErrUnexpectedGranteeShape,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			got, err := parser.ParseGrantees([]byte(d.payload))
			if d.wantErr != nil {
				if !errors.Is(err, d.wantErr) {
					t.Fatalf("wanted %v, got %v", d.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.exp, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestParseGrantees_malformed(t *testing.T) {
	t.Parallel()
	if _, err := parser.ParseGrantees([]byte(`[{"name":`)); err == nil {
		t.Fatal("an error must be returned")
	}
}
