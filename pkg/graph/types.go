package graph

import (
	"regexp"
	"strings"

	"github.com/osduviz/schemagraph/pkg/schema"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds.
const (
	KindEntity   = "entity"         // the schema being visualized
	KindRelated  = "related-entity" // discovered via x-osdu-relationship
	KindAbstract = "abstract"       // discovered via structural $ref
)

// Edge kinds.
const (
	EdgeRef          = "ref"              // inheritance/composition via $ref
	EdgeRelationship = "relationship"     // generic relationship (legacy view)
	EdgeERD          = "erd-relationship" // typed business relationship
	EdgeConnectable  = "connectable"      // relationship marking a connection point
)

// ID prefixes keep ids for the same logical entity stable across
// independent builds, which is what lets cross-schema navigation work.
const (
	relatedIDPrefix  = "entity::"
	abstractIDPrefix = "ref::"
	kindIDPrefix     = "kind::"
)

// =============================================================================
// Graph - Schema Relationship Graph
// =============================================================================

// Graph is the canonical serialization format for extracted schema graphs.
// Used for API responses, storage, caching, and file round-trips. It is a
// pure function of (schema, index, options): nothing in it is persisted
// state.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Position is a 2D layout coordinate. Absent until the layout engine runs.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is one visual box in the graph.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Kind     string `json:"kind" bson:"kind"`
	Category string `json:"category,omitempty" bson:"category,omitempty"` // related entities only
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	Subtitle string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`

	// FilePath and SchemaID let a consumer resolve the node back to an
	// index key ("navigate to this entity"). Both are empty on ghost
	// nodes, which is how callers detect an unresolved reference.
	FilePath string `json:"filePath,omitempty" bson:"filePath,omitempty"`
	SchemaID string `json:"schemaId,omitempty" bson:"schemaId,omitempty"`

	Properties []schema.Property `json:"properties" bson:"properties"`

	// Relationships is only populated on the main entity node.
	Relationships []schema.Relationship `json:"erdRelationships,omitempty" bson:"erdRelationships,omitempty"`

	Position *Position `json:"position,omitempty" bson:"position,omitempty"`
}

// IsGhost reports whether the node's reference target could not be
// resolved against the index.
func (n *Node) IsGhost() bool {
	return n.Kind != KindEntity && n.FilePath == "" && len(n.Properties) == 0
}

// EdgeMeta carries the relationship payload of ERD edges.
type EdgeMeta struct {
	SourceProperty   string `json:"sourceProperty,omitempty" bson:"sourceProperty,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty" bson:"relationshipType,omitempty"`
	Cardinality      string `json:"cardinality,omitempty" bson:"cardinality,omitempty"`
	IsConnectable    bool   `json:"isConnectable,omitempty" bson:"isConnectable,omitempty"`
}

// Edge is a directed relation between two node ids.
type Edge struct {
	ID     string    `json:"id" bson:"id"`
	Source string    `json:"source" bson:"source"`
	Target string    `json:"target" bson:"target"`
	Kind   string    `json:"kind" bson:"kind"`
	Label  string    `json:"label,omitempty" bson:"label,omitempty"`
	Meta   *EdgeMeta `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// =============================================================================
// Identifiers
// =============================================================================

var idJunk = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeID derives a stable node id from a schema title or identifier:
// lowercased, with every non-alphanumeric run collapsed to a single dash
// ("Well Log 1.2.0" becomes "well-log-1-2-0"). The same input always
// yields the same id, so a logical entity keeps its id across builds.
func NormalizeID(s string) string {
	id := idJunk.ReplaceAllString(strings.ToLower(s), "-")
	id = strings.Trim(id, "-")
	if id == "" {
		return "schema"
	}
	return id
}

// RelatedID returns the node id for a related entity.
func RelatedID(entity string) string { return relatedIDPrefix + entity }

// AbstractID returns the node id for a structural $ref target.
func AbstractID(ref string) string { return abstractIDPrefix + ref }

// KindID returns the node id for a legacy-mode relationship kind.
func KindID(kind string) string { return kindIDPrefix + kind }
