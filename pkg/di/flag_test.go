package di_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/di"
	"github.com/lawlink-oss/refcheck/pkg/diff"
)

func TestFlags_Categories(t *testing.T) {
	t.Parallel()
	data := []struct {
		name     string
		category string
		exp      []diff.Category
		isErr    bool
	}{
		{name: "all", category: "all", exp: diff.Categories()},
		{name: "one", category: "legal-aid", exp: []diff.Category{diff.CategoryLegalAid}},
		{name: "unknown", category: "embassies", isErr: true},
		{name: "empty", category: "", isErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			got, err := (&di.Flags{Category: d.category}).Categories()
			if err != nil {
				if d.isErr {
					return
				}
				t.Fatal(err)
			}
			if d.isErr {
				t.Fatal("error must be returned")
			}
			if diff := cmp.Diff(d.exp, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
