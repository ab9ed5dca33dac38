package bindit

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// emptyDoc is the canonical representation of an empty state tree.
var emptyDoc = []byte(`{}`)

// resolvePath reads the value at a dot-separated path in doc and reports
// whether the path exists. Values come back in canonical tree form:
// map[string]any, []any, float64, string, bool, or nil.
func resolvePath(doc []byte, path string) (any, bool) {
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// commitPath writes value at path, creating intermediate objects for any
// missing segments, and returns the updated document. The input document
// is never modified.
func commitPath(doc []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(doc, path, value)
}

// removePath deletes the value at path. Missing paths are a no-op.
func removePath(doc []byte, path string) ([]byte, error) {
	return sjson.DeleteBytes(doc, path)
}

// escapeSegment escapes a single tree key so it behaves as a literal
// segment in a dot-separated path.
func escapeSegment(key string) string {
	if !strings.ContainsAny(key, `.\*?|#@`) {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '\\', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// leaf is one addressable value produced by flattening a decoded tree.
type leaf struct {
	path  string
	value any
}

// flattenTree walks a decoded document and returns its leaves as
// (path, value) pairs in depth-first key order. Non-empty nested maps
// recurse; scalars, arrays, nils, and empty maps are leaves.
func flattenTree(tree map[string]any) []leaf {
	var out []leaf
	walkTree("", tree, &out)
	return out
}

func walkTree(prefix string, node map[string]any, out *[]leaf) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := escapeSegment(k)
		if prefix != "" {
			path = prefix + "." + path
		}
		if child, ok := node[k].(map[string]any); ok && len(child) > 0 {
			walkTree(path, child, out)
			continue
		}
		*out = append(*out, leaf{path: path, value: node[k]})
	}
}
