package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Grantee is one organization returned by the grantee API.
type Grantee struct {
	Name    string
	City    string
	State   string
	Phone   string
	Website string
}

// ErrUnexpectedGranteeShape is returned when the grantee payload is neither
// an array nor an object with a "grantees" array.
var ErrUnexpectedGranteeShape = errors.New(`the grantee response is neither an array nor an object with "grantees"`)

// FetchGrantees fetches and parses the grantee API response.
func FetchGrantees(ctx context.Context, fetcher Fetcher, u string) ([]Grantee, error) {
	b, err := fetcher.GetList(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch grantees: %w", err)
	}
	return ParseGrantees(b)
}

var granteeFieldKeys = map[string][]string{ //nolint:gochecknoglobals
	"name":    {"name", "granteeName", "grantee_name", "organization", "organizationName"},
	"city":    {"city"},
	"state":   {"state"},
	"phone":   {"phone", "telephone"},
	"website": {"website", "url", "webSite"},
}

// ParseGrantees accepts a bare JSON array or {"grantees": [...]}.
// Field values are coerced to strings, and entries without a name are dropped.
func ParseGrantees(b []byte) ([]Grantee, error) {
	b = bytes.TrimSpace(b)
	var entries []map[string]any
	switch {
	case bytes.HasPrefix(b, []byte("[")):
		if err := json.Unmarshal(b, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal grantees as a JSON array: %w", err)
		}
	case bytes.HasPrefix(b, []byte("{")):
		var wrapper struct {
			Grantees []map[string]any `json:"grantees"`
		}
		if err := json.Unmarshal(b, &wrapper); err != nil {
			return nil, fmt.Errorf("unmarshal grantees as a JSON object: %w", err)
		}
		if wrapper.Grantees == nil {
			return nil, ErrUnexpectedGranteeShape
		}
		entries = wrapper.Grantees
	default:
		return nil, ErrUnexpectedGranteeShape
	}
	grantees := make([]Grantee, 0, len(entries))
	for _, entry := range entries {
		g := Grantee{
			Name:    field(entry, "name"),
			City:    field(entry, "city"),
			State:   field(entry, "state"),
			Phone:   field(entry, "phone"),
			Website: field(entry, "website"),
		}
		if g.Name == "" {
			continue
		}
		grantees = append(grantees, g)
	}
	return grantees, nil
}

func field(entry map[string]any, name string) string {
	for _, key := range granteeFieldKeys[name] {
		if v, ok := entry[key]; ok {
			if s := coerce(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
