// Package schema models OSDU JSON Schema documents and the lookup index
// used to resolve references between them.
//
// A Document is a decoded JSON object; this package deliberately avoids a
// typed struct hierarchy because OSDU schemas nest composition keywords
// (allOf/anyOf/oneOf), array item schemas, and vendor extensions at
// arbitrary depth. Accessors tolerate missing or malformed fields and
// return zero values instead of errors.
package schema

import (
	"encoding/json"
	"sort"
)

// ExtRelationship is the key of the OSDU relationship extension carried by
// properties that reference other entities.
const ExtRelationship = "x-osdu-relationship"

// Document is a parsed JSON Schema object.
type Document map[string]any

// Parse decodes a JSON Schema document from raw bytes.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RelationshipRef is one entry of the x-osdu-relationship extension.
type RelationshipRef struct {
	GroupType  string
	EntityType string
}

// Ref returns the $ref string if present.
func (d Document) Ref() (string, bool) {
	s, ok := d["$ref"].(string)
	return s, ok && s != ""
}

// Title returns the schema title, or "".
func (d Document) Title() string {
	s, _ := d["title"].(string)
	return s
}

// ID returns the $id identifier, or "".
func (d Document) ID() string {
	s, _ := d["$id"].(string)
	return s
}

// Description returns the schema description, or "".
func (d Document) Description() string {
	s, _ := d["description"].(string)
	return s
}

// TypeString flattens the schema type per the display policy: a scalar
// type verbatim, an array of types joined with "|", and "$ref:<path>"
// when no type is declared but a $ref is.
func (d Document) TypeString() string {
	switch t := d["type"].(type) {
	case string:
		return t
	case []any:
		out := ""
		for i, v := range t {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if i > 0 {
				out += "|"
			}
			out += s
		}
		if out != "" {
			return out
		}
	}
	if ref, ok := d.Ref(); ok {
		return "$ref:" + ref
	}
	return ""
}

// IsArray reports whether the schema declares type "array".
func (d Document) IsArray() bool {
	t, _ := d["type"].(string)
	return t == "array"
}

// Properties returns the properties map, or nil when absent or malformed.
func (d Document) Properties() map[string]any {
	m, _ := d["properties"].(map[string]any)
	return m
}

// PropertyNames returns the property keys in sorted order. JSON object
// order is not observable after decoding, so sorted iteration keeps the
// extracted property list and every downstream id deterministic.
func (d Document) PropertyNames() []string {
	props := d.Properties()
	if len(props) == 0 {
		return nil
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Required returns the root-level required property set.
func (d Document) Required() map[string]bool {
	list, _ := d["required"].([]any)
	if len(list) == 0 {
		return nil
	}
	req := make(map[string]bool, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			req[s] = true
		}
	}
	return req
}

// Items returns the array item schema, or nil.
func (d Document) Items() map[string]any {
	m, _ := d["items"].(map[string]any)
	return m
}

// Compositions returns the subschemas of allOf, anyOf, and oneOf, in that
// order. Composition does not introduce a path segment during traversal.
func (d Document) Compositions() []map[string]any {
	var out []map[string]any
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		list, _ := d[key].([]any)
		for _, v := range list {
			if m, ok := v.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// Relationships returns the x-osdu-relationship entries declared directly
// on this schema node. Entries that are not objects are skipped.
func (d Document) Relationships() []RelationshipRef {
	list, _ := d[ExtRelationship].([]any)
	if len(list) == 0 {
		return nil
	}
	out := make([]RelationshipRef, 0, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		gt, _ := m["GroupType"].(string)
		et, _ := m["EntityType"].(string)
		out = append(out, RelationshipRef{GroupType: gt, EntityType: et})
	}
	return out
}
