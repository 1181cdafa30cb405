package schema

import "strings"

// Property is one extracted property row of a schema, identified by its
// dotted path from the schema root.
type Property struct {
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type,omitempty" bson:"type,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Required    bool   `json:"required,omitempty" bson:"required,omitempty"`
	Depth       int    `json:"depth" bson:"depth"`
}

// RelationshipHit records one x-osdu-relationship entry found during the
// walk, together with enough surrounding context to classify it later.
type RelationshipHit struct {
	// SourceProperty is the last path segment, i.e. the property under
	// which the extension appeared. Empty for a root-level extension.
	SourceProperty string
	GroupType      string
	EntityType     string
	// OnArray reports whether the enclosing schema node declares type
	// "array", which drives cardinality.
	OnArray bool
	Depth   int
}

// WalkResult accumulates everything a single traversal discovers.
// Slices preserve walk order; Refs keeps first-seen order and is
// deduplicated.
type WalkResult struct {
	Properties    []Property
	Refs          []string
	Relationships []RelationshipHit

	refSeen map[string]bool
}

// Walk traverses a schema document exhaustively and returns the extracted
// properties, structural $ref targets, and relationship hits.
//
// The traversal follows properties (extending the dotted path), allOf/
// anyOf/oneOf and items (same path), and treats any non-object value as a
// leaf. It never fails: malformed fragments simply contribute nothing.
// Required is only set on depth-1 properties listed in the root-level
// required list.
func Walk(doc Document) *WalkResult {
	res := &WalkResult{refSeen: make(map[string]bool)}
	res.visit(map[string]any(doc), nil, doc.Required())
	return res
}

func (r *WalkResult) visit(node any, path []string, rootRequired map[string]bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return
	}
	d := Document(m)

	if ref, ok := d.Ref(); ok {
		if !r.refSeen[ref] {
			r.refSeen[ref] = true
			r.Refs = append(r.Refs, ref)
		}
	}

	for _, rel := range d.Relationships() {
		hit := RelationshipHit{
			GroupType:  rel.GroupType,
			EntityType: rel.EntityType,
			OnArray:    d.IsArray(),
			Depth:      len(path),
		}
		if len(path) > 0 {
			hit.SourceProperty = path[len(path)-1]
		}
		r.Relationships = append(r.Relationships, hit)
	}

	props := d.Properties()
	for _, name := range d.PropertyNames() {
		child := props[name]
		childPath := append(append([]string{}, path...), name)
		r.Properties = append(r.Properties, Property{
			Name:        strings.Join(childPath, "."),
			Type:        typeOf(child),
			Description: descriptionOf(child),
			Required:    len(childPath) == 1 && rootRequired[name],
			Depth:       len(childPath),
		})
		r.visit(child, childPath, rootRequired)
	}

	for _, sub := range d.Compositions() {
		r.visit(sub, path, rootRequired)
	}

	if items := d.Items(); items != nil {
		r.visit(items, path, rootRequired)
	}
}

func typeOf(v any) string {
	if m, ok := v.(map[string]any); ok {
		return Document(m).TypeString()
	}
	return ""
}

func descriptionOf(v any) string {
	if m, ok := v.(map[string]any); ok {
		return Document(m).Description()
	}
	return ""
}
