// Package inspect renders compiler-internal structures as JSON for
// tooling: the CLI's `--ast-json` flag (a queryable dump of the
// flattened rule-set list) and a JSON form of a single value (Value)
// that recurses into lists/maps; `@debug` itself prints
// value.Value.Inspect(), not this JSON form. Each document is built
// incrementally with sjson.SetRaw and exposing it for gjson queries the
// way the teacher's pkg/ast visitor builds a tree incrementally — here
// the tree is JSON text rather than a Go struct walk.
package inspect

import (
	"fmt"

	"github.com/cwbudde/cssc/internal/flatten"
	"github.com/cwbudde/cssc/internal/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Value renders v as a JSON document, recursing into List/Map so a
// caller can gjson-query into nested structure (plain scalars render as
// {"type":"...", "value":"..."}).
func Value(v value.Value) (string, error) {
	doc, err := valueJSON(v)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

func valueJSON(v value.Value) (string, error) {
	doc := "{}"
	var err error
	switch t := v.(type) {
	case *value.List:
		doc, err = sjson.Set(doc, "type", "list")
		if err != nil {
			return "", err
		}
		for i, item := range t.Items {
			itemDoc, ierr := valueJSON(item)
			if ierr != nil {
				return "", ierr
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("items.%d", i), itemDoc)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *value.Map:
		doc, err = sjson.Set(doc, "type", "map")
		if err != nil {
			return "", err
		}
		for _, k := range t.SortedKeys() {
			entry, _ := t.Get(k)
			valDoc, verr := valueJSON(entry)
			if verr != nil {
				return "", verr
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("entries.%s", jsonKey(k.String())), valDoc)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	default:
		doc, err = sjson.Set(doc, "type", value.TypeOf(v))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "value", v.String())
		if err != nil {
			return "", err
		}
		return doc, nil
	}
}

func jsonKey(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '.' || r == '*' || r == '#' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Flattened renders a flatten.Node list as the document behind
// `--ast-json`: an array of rule/at-block/charset objects, gjson-queryable
// by callers and tests alike (e.g. `gjson.Get(doc, "0.selector")`).
func Flattened(nodes []flatten.Node) (string, error) {
	doc := "[]"
	var err error
	for i, n := range nodes {
		nodeDoc, nerr := nodeJSON(n)
		if nerr != nil {
			return "", nerr
		}
		doc, err = sjson.SetRaw(doc, fmt.Sprintf("%d", i), nodeDoc)
		if err != nil {
			return "", err
		}
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

func nodeJSON(n flatten.Node) (string, error) {
	doc := "{}"
	var err error
	switch t := n.(type) {
	case *flatten.Rule:
		doc, err = sjson.Set(doc, "kind", "rule")
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "selector", t.Selector)
		if err != nil {
			return "", err
		}
		for i, d := range t.Decls {
			prefix := fmt.Sprintf("decls.%d.", i)
			doc, err = sjson.Set(doc, prefix+"property", d.Property)
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, prefix+"value", d.Value)
			if err != nil {
				return "", err
			}
			doc, err = sjson.Set(doc, prefix+"important", d.Important)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *flatten.AtBlock:
		doc, err = sjson.Set(doc, "kind", "at-block")
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "keyword", t.Keyword)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "prelude", t.Prelude)
		if err != nil {
			return "", err
		}
		for i, c := range t.Children {
			childDoc, cerr := nodeJSON(c)
			if cerr != nil {
				return "", cerr
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("children.%d", i), childDoc)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *flatten.Charset:
		doc, err = sjson.Set(doc, "kind", "charset")
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "value", t.Value)
		if err != nil {
			return "", err
		}
		return doc, nil
	default:
		return "{}", nil
	}
}

// Query runs a gjson path expression against a document produced by
// Value or Flattened; a thin re-export so callers (and tests) don't need
// their own gjson import just to read this package's output back.
func Query(doc, path string) gjson.Result {
	return gjson.Get(doc, path)
}
