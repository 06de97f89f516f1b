package dataset

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/spf13/afero"
)

// RecordLines maps the id of each record in a dataset file to the line of
// its id key.
func (l *Loader) RecordLines(p string) (map[string]int, error) {
	b, err := afero.ReadFile(l.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read a dataset file %s: %w", p, err)
	}
	file, err := parser.ParseBytes(b, 0)
	if err != nil {
		return nil, fmt.Errorf("parse a dataset file %s: %w", p, err)
	}
	lines := map[string]int{}
	for _, doc := range file.Docs {
		seq, ok := doc.Body.(*ast.SequenceNode)
		if !ok {
			continue
		}
		for _, value := range seq.Values {
			m, ok := value.(*ast.MappingNode)
			if !ok {
				continue
			}
			idNode := findNodeByKey(m.Values, "id")
			if idNode == nil {
				continue
			}
			lines[idNode.Value.GetToken().Value] = idNode.Key.GetToken().Position.Line
		}
	}
	return lines, nil
}

func findNodeByKey(values []*ast.MappingValueNode, key string) *ast.MappingValueNode {
	for _, value := range values {
		k, ok := value.Key.(*ast.StringNode)
		if !ok {
			continue
		}
		if k.Value == key {
			return value
		}
	}
	return nil
}
