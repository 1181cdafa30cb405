package schema

import (
	"reflect"
	"testing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"scalar type", Document{"type": "string"}, "string"},
		{"array of types", Document{"type": []any{"string", "null"}}, "string|null"},
		{"ref fallback", Document{"$ref": "../abstract/AbstractFacility.1.0.0.json"}, "$ref:../abstract/AbstractFacility.1.0.0.json"},
		{"type wins over ref", Document{"type": "object", "$ref": "x.json"}, "object"},
		{"empty", Document{}, ""},
		{"non-string entries skipped", Document{"type": []any{"integer", 7.0}}, "integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.TypeString(); got != tt.want {
				t.Errorf("TypeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPropertyNamesSorted(t *testing.T) {
	doc := Document{"properties": map[string]any{
		"zeta":  map[string]any{},
		"alpha": map[string]any{},
		"mid":   map[string]any{},
	}}

	want := []string{"alpha", "mid", "zeta"}
	if got := doc.PropertyNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("PropertyNames() = %v, want %v", got, want)
	}
}

func TestCompositionsOrder(t *testing.T) {
	doc := Document{
		"oneOf": []any{map[string]any{"title": "c"}},
		"allOf": []any{map[string]any{"title": "a"}},
		"anyOf": []any{map[string]any{"title": "b"}},
	}

	subs := doc.Compositions()
	if len(subs) != 3 {
		t.Fatalf("Compositions() returned %d subschemas, want 3", len(subs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := Document(subs[i]).Title(); got != want {
			t.Errorf("Compositions()[%d].Title() = %q, want %q", i, got, want)
		}
	}
}

func TestRelationshipsSkipsMalformed(t *testing.T) {
	doc := Document{ExtRelationship: []any{
		map[string]any{"GroupType": "master-data", "EntityType": "Well"},
		"not-an-object",
		map[string]any{"EntityType": "Wellbore"},
	}}

	got := doc.Relationships()
	want := []RelationshipRef{
		{GroupType: "master-data", EntityType: "Well"},
		{GroupType: "", EntityType: "Wellbore"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Relationships() = %+v, want %+v", got, want)
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`{"title": "Well", "type": "object"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title() != "Well" {
		t.Errorf("Title() = %q, want %q", doc.Title(), "Well")
	}

	if _, err := Parse([]byte(`{broken`)); err == nil {
		t.Error("Parse() of invalid JSON should fail")
	}
}
