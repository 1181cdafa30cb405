package schema

import (
	"sort"
	"strings"
)

// Entity categories inferred from schema paths. Checked in this priority
// order, first match wins.
const (
	CategoryMasterData           = "master-data"
	CategoryReferenceData        = "reference-data"
	CategoryWorkProductComponent = "work-product-component"
)

var categories = []string{
	CategoryMasterData,
	CategoryReferenceData,
	CategoryWorkProductComponent,
}

// Index is an immutable lookup of known schemas, keyed by their file path.
// Resolution against the index is best-effort fuzzy string matching: a
// miss means an unresolved ("ghost") node, never an error.
type Index struct {
	docs map[string]Document
	keys []string // sorted, so every resolution scan is deterministic
}

// NewIndex builds an index over the given path → document map.
// The map is not copied; callers must not mutate it afterwards.
func NewIndex(docs map[string]Document) *Index {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Index{docs: docs, keys: keys}
}

// Len returns the number of indexed schemas.
func (ix *Index) Len() int { return len(ix.keys) }

// Keys returns the indexed schema paths in sorted order.
// The returned slice is shared; callers must not modify it.
func (ix *Index) Keys() []string { return ix.keys }

// Lookup returns the document stored under the exact key.
func (ix *Index) Lookup(key string) (Document, bool) {
	d, ok := ix.docs[key]
	return d, ok
}

// Match is a successful index resolution.
type Match struct {
	Key string
	Doc Document
}

// ResolveRef resolves a $ref string against the index by path suffix.
// Relative segments ("./", "../") are stripped before matching, and a
// ".json" ref also matches the minified ".min.json" index key.
func (ix *Index) ResolveRef(ref string) (Match, bool) {
	clean := normalizeRefPath(ref)
	if clean == "" {
		return Match{}, false
	}
	if doc, ok := ix.docs[clean]; ok {
		return Match{Key: clean, Doc: doc}, true
	}

	candidates := []string{clean}
	if strings.HasSuffix(clean, ".json") && !strings.HasSuffix(clean, ".min.json") {
		candidates = append(candidates, strings.TrimSuffix(clean, ".json")+".min.json")
	}
	base := strings.TrimSuffix(strings.TrimSuffix(pathBase(clean), ".min.json"), ".json")

	for _, cand := range candidates {
		for _, key := range ix.keys {
			if strings.HasSuffix(key, cand) || strings.HasSuffix(key, "/"+pathBase(cand)) {
				return Match{Key: key, Doc: ix.docs[key]}, true
			}
		}
	}
	// Last resort: match on the bare file stem.
	if base != "" {
		for _, key := range ix.keys {
			if strings.Contains(pathBase(key), base) {
				return Match{Key: key, Doc: ix.docs[key]}, true
			}
		}
	}
	return Match{}, false
}

// ResolveEntity resolves a related-entity name against the index using an
// ordered strategy list: exact path suffix, then title match, then $id
// suffix, then fuzzy substring. When groupType is non-empty, keys whose
// path contains that group directory are preferred within each strategy.
// False positives and negatives are expected and acceptable.
func (ix *Index) ResolveEntity(entity, groupType string) (Match, bool) {
	if entity == "" {
		return Match{}, false
	}

	strategies := []func(key string, doc Document) bool{
		func(key string, _ Document) bool {
			base := pathBase(key)
			return strings.HasPrefix(base, entity+".") || base == entity+".json" || base == entity+".min.json"
		},
		func(_ string, doc Document) bool {
			return doc.Title() == entity
		},
		func(_ string, doc Document) bool {
			id := doc.ID()
			return id != "" && (strings.HasSuffix(id, "/"+entity) || strings.Contains(id, "/"+entity+":"))
		},
		func(key string, _ Document) bool {
			return strings.Contains(strings.ToLower(key), strings.ToLower(entity))
		},
	}

	group := strings.ToLower(groupType)
	for _, matches := range strategies {
		var fallback *Match
		for _, key := range ix.keys {
			doc := ix.docs[key]
			if !matches(key, doc) {
				continue
			}
			if group == "" || strings.Contains(strings.ToLower(key), "/"+group+"/") ||
				strings.Contains(strings.ToLower(key), group) {
				return Match{Key: key, Doc: doc}, true
			}
			if fallback == nil {
				fallback = &Match{Key: key, Doc: doc}
			}
		}
		if fallback != nil {
			return *fallback, true
		}
	}
	return Match{}, false
}

// Category infers the entity category from a resolved schema's path or
// $id. Returns "" when nothing matches.
func Category(key string, doc Document) string {
	haystacks := []string{strings.ToLower(key)}
	if doc != nil {
		haystacks = append(haystacks, strings.ToLower(doc.ID()))
	}
	for _, cat := range categories {
		for _, h := range haystacks {
			if strings.Contains(h, cat) {
				return cat
			}
		}
	}
	return ""
}

// normalizeRefPath strips relative path segments and URL fragments from a
// $ref string so it can be compared against index keys.
func normalizeRefPath(ref string) string {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		ref = ref[:i]
	}
	for strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		ref = strings.TrimPrefix(ref, "./")
		ref = strings.TrimPrefix(ref, "../")
	}
	return strings.TrimPrefix(ref, "/")
}

func pathBase(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
