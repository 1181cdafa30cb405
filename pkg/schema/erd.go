package schema

import "strings"

// Relationship type labels used in ERD views.
const (
	RelReferences = "references"
	RelConnects   = "connects to"
	RelContains   = "contains"
	RelPartOf     = "part of"
)

// Cardinality labels.
const (
	CardinalityOneToOne  = "one-to-one"
	CardinalityOneToMany = "one-to-many"
)

// Relationship is a classified business relationship from the schema under
// inspection to a target entity.
type Relationship struct {
	SourceProperty   string `json:"sourceProperty" bson:"sourceProperty"`
	TargetEntity     string `json:"targetEntity" bson:"targetEntity"`
	RelationshipType string `json:"relationshipType" bson:"relationshipType"`
	Cardinality      string `json:"cardinality" bson:"cardinality"`
	IsConnectable    bool   `json:"isConnectable,omitempty" bson:"isConnectable,omitempty"`
	GroupType        string `json:"groupType,omitempty" bson:"groupType,omitempty"`
}

// ClassifyRelationships turns the walk's relationship hits into typed ERD
// relationships, then appends the array-items connectable scan.
//
// A schema that matches both the direct property scan and the array-items
// scan is recorded twice. That duplication mirrors the observed heuristic
// in the OSDU viewer and is kept on purpose; dropping one of the two
// would silently change edge multiplicity.
func ClassifyRelationships(doc Document, res *WalkResult) []Relationship {
	var rels []Relationship
	for _, hit := range res.Relationships {
		if hit.Depth < 1 || hit.EntityType == "" {
			continue
		}
		rels = append(rels, classify(hit))
	}
	rels = append(rels, scanConnectableArrays(map[string]any(doc))...)
	return rels
}

func classify(hit RelationshipHit) Relationship {
	prop := strings.ToLower(hit.SourceProperty)
	target := strings.ToLower(hit.EntityType)

	rel := Relationship{
		SourceProperty:   hit.SourceProperty,
		TargetEntity:     hit.EntityType,
		RelationshipType: RelReferences,
		Cardinality:      CardinalityOneToOne,
		GroupType:        hit.GroupType,
	}
	if hit.OnArray {
		rel.Cardinality = CardinalityOneToMany
	}

	switch {
	case strings.Contains(prop, "connection"), strings.Contains(prop, "connect"),
		strings.Contains(target, "connection"):
		rel.RelationshipType = RelConnects
		rel.IsConnectable = true
	case strings.Contains(prop, "component"), strings.Contains(target, "component"):
		rel.RelationshipType = RelContains
	case strings.Contains(prop, "parent"), strings.Contains(prop, "assembly"):
		rel.RelationshipType = RelPartOf
	}
	return rel
}

// scanConnectableArrays finds array-typed properties whose name suggests a
// connection point and whose item schema carries the relationship
// extension directly. This covers schemas that attach x-osdu-relationship
// to the array's item rather than the array property itself.
func scanConnectableArrays(node any) []Relationship {
	m, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	d := Document(m)

	var rels []Relationship
	props := d.Properties()
	for _, name := range d.PropertyNames() {
		child, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		cd := Document(child)
		if connectableName(name) && cd.IsArray() {
			if items := cd.Items(); items != nil {
				for _, ref := range Document(items).Relationships() {
					if ref.EntityType == "" {
						continue
					}
					rels = append(rels, Relationship{
						SourceProperty:   name,
						TargetEntity:     ref.EntityType,
						RelationshipType: RelContains,
						Cardinality:      CardinalityOneToMany,
						IsConnectable:    true,
						GroupType:        ref.GroupType,
					})
				}
			}
		}
		rels = append(rels, scanConnectableArrays(child)...)
	}

	for _, sub := range d.Compositions() {
		rels = append(rels, scanConnectableArrays(sub)...)
	}
	if items := d.Items(); items != nil {
		rels = append(rels, scanConnectableArrays(items)...)
	}
	return rels
}

func connectableName(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "connection") ||
		strings.Contains(n, "component") ||
		strings.Contains(n, "node")
}
