package graph

import (
	"fmt"
	"strings"

	"github.com/osduviz/schemagraph/pkg/schema"
)

// Options controls graph extraction.
type Options struct {
	// ERDView selects the entity-relationship view (the default shape).
	// When false the legacy view is built: one generic node per distinct
	// relationship kind string.
	ERDView bool `json:"erdView"`

	// Filter is a case-insensitive substring applied to the main entity's
	// displayed property and relationship lists. It never removes graph
	// nodes.
	Filter string `json:"filter,omitempty"`
}

// Build converts one root schema plus an index of sibling schemas into a
// node/edge graph. It is a pure, deterministic function: the same
// (schema, index, options) always produces byte-identical node and edge
// slices, and every call builds its accumulators from scratch.
//
// Resolution against the index is best-effort; targets that cannot be
// resolved still yield nodes (with no properties), and the final pass
// drops any edge whose endpoint id ended up missing.
func Build(doc schema.Document, ix *schema.Index, opts Options) Graph {
	res := schema.Walk(doc)

	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	g.Nodes = append(g.Nodes, entityNode(doc, res, opts))
	entityID := g.Nodes[0].ID

	if opts.ERDView {
		buildERD(&g, entityID, doc, res, ix)
	} else {
		buildLegacy(&g, entityID, res, opts.Filter)
	}

	g.Edges = dropDanglingEdges(g.Nodes, g.Edges)
	return g
}

// entityNode builds the single main entity node. It exists even when the
// schema has no title and no properties.
func entityNode(doc schema.Document, res *schema.WalkResult, opts Options) Node {
	title := doc.Title()
	if title == "" {
		title = doc.ID()
	}
	id := NormalizeID(title)

	node := Node{
		ID:         id,
		Kind:       KindEntity,
		Label:      doc.Title(),
		Subtitle:   doc.ID(),
		SchemaID:   doc.ID(),
		Properties: filterProperties(res.Properties, opts.Filter),
	}
	if node.Label == "" {
		node.Label = id
	}
	if opts.ERDView {
		node.Relationships = filterRelationships(schema.ClassifyRelationships(doc, res), opts.Filter)
	}
	return node
}

// buildERD materializes related-entity and abstract nodes plus their edges.
func buildERD(g *Graph, entityID string, doc schema.Document, res *schema.WalkResult, ix *schema.Index) {
	rels := schema.ClassifyRelationships(doc, res)

	// One node per unique target entity, first relationship wins the
	// resolution metadata. Map is only for dedup; order follows rels.
	seen := make(map[string]bool)
	for _, rel := range rels {
		if rel.TargetEntity == "" {
			continue
		}
		id := RelatedID(rel.TargetEntity)
		if seen[id] {
			continue
		}
		seen[id] = true
		g.Nodes = append(g.Nodes, relatedNode(id, rel, ix))
	}

	// Every relationship keeps its own edge, even when several target the
	// same entity; the occurrence counter disambiguates ids.
	occurrences := make(map[string]int)
	for _, rel := range rels {
		if rel.TargetEntity == "" {
			continue
		}
		target := RelatedID(rel.TargetEntity)
		kind := EdgeERD
		if rel.IsConnectable {
			kind = EdgeConnectable
		}
		g.Edges = append(g.Edges, Edge{
			ID:     edgeID(occurrences, entityID, target),
			Source: entityID,
			Target: target,
			Kind:   kind,
			Label:  rel.RelationshipType,
			Meta: &EdgeMeta{
				SourceProperty:   rel.SourceProperty,
				RelationshipType: rel.RelationshipType,
				Cardinality:      rel.Cardinality,
				IsConnectable:    rel.IsConnectable,
			},
		})
	}

	for _, ref := range res.Refs {
		id := AbstractID(ref)
		if seen[id] {
			continue
		}
		seen[id] = true
		g.Nodes = append(g.Nodes, abstractNode(id, ref, ix))
		g.Edges = append(g.Edges, Edge{
			ID:     edgeID(occurrences, entityID, id),
			Source: entityID,
			Target: id,
			Kind:   EdgeRef,
			Label:  "extends",
		})
	}
}

func relatedNode(id string, rel schema.Relationship, ix *schema.Index) Node {
	node := Node{
		ID:         id,
		Kind:       KindRelated,
		Label:      rel.TargetEntity,
		Properties: []schema.Property{},
	}
	match, ok := ix.ResolveEntity(rel.TargetEntity, rel.GroupType)
	if !ok {
		// Ghost node: the target stays visible with empty properties.
		node.Category = schema.Category("", nil)
		if rel.GroupType != "" {
			node.Category = schema.Category(rel.GroupType, nil)
		}
		return node
	}
	node.FilePath = match.Key
	node.SchemaID = match.Doc.ID()
	node.Subtitle = match.Doc.ID()
	if node.Subtitle == "" {
		node.Subtitle = match.Key
	}
	if t := match.Doc.Title(); t != "" {
		node.Label = t
	}
	node.Category = schema.Category(match.Key, match.Doc)
	node.Properties = schema.Walk(match.Doc).Properties
	return node
}

func abstractNode(id, ref string, ix *schema.Index) Node {
	node := Node{
		ID:         id,
		Kind:       KindAbstract,
		Label:      refLabel(ref),
		Subtitle:   ref,
		Properties: []schema.Property{},
	}
	match, ok := ix.ResolveRef(ref)
	if !ok {
		return node
	}
	node.FilePath = match.Key
	node.SchemaID = match.Doc.ID()
	if t := match.Doc.Title(); t != "" {
		node.Label = t
	}
	node.Properties = schema.Walk(match.Doc).Properties
	return node
}

// buildLegacy produces the flat per-kind view: every distinct relationship
// kind string (GroupType--EntityType or $ref value) becomes one node that
// the main entity connects to once. Exists for parity and testing.
func buildLegacy(g *Graph, entityID string, res *schema.WalkResult, filter string) {
	var kinds []string
	seen := make(map[string]bool)
	add := func(kind string) {
		if kind == "" || seen[kind] {
			return
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	for _, hit := range res.Relationships {
		if hit.EntityType == "" {
			continue
		}
		if hit.GroupType != "" {
			add(hit.GroupType + "--" + hit.EntityType)
		} else {
			add(hit.EntityType)
		}
	}
	for _, ref := range res.Refs {
		add(ref)
	}

	occurrences := make(map[string]int)
	for _, kind := range kinds {
		// Legacy mode has no detail panel, so filtering prunes the kind
		// nodes themselves instead of marking a Filtered flag.
		if filter != "" && !strings.Contains(strings.ToLower(kind), strings.ToLower(filter)) {
			continue
		}
		id := KindID(kind)
		g.Nodes = append(g.Nodes, Node{
			ID:         id,
			Kind:       KindRelated,
			Label:      kind,
			Properties: []schema.Property{},
		})
		g.Edges = append(g.Edges, Edge{
			ID:     edgeID(occurrences, entityID, id),
			Source: entityID,
			Target: id,
			Kind:   EdgeRelationship,
		})
	}
}

// edgeID builds a unique edge id for a source/target pair, suffixing an
// occurrence counter ("#2", "#3", ...) for repeats. Callers must feed
// pairs in a stable order for ids to be reproducible.
func edgeID(occurrences map[string]int, source, target string) string {
	base := source + "->" + target
	occurrences[base]++
	if n := occurrences[base]; n > 1 {
		return fmt.Sprintf("%s#%d", base, n)
	}
	return base
}

// dropDanglingEdges removes edges whose endpoints are not in the node set.
// This runs unconditionally as the final validation pass: upstream
// resolution is fuzzy string matching and may legitimately fail to
// produce a node for an id an edge was built against.
func dropDanglingEdges(nodes []Node, edges []Edge) []Edge {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	out := edges[:0]
	for _, e := range edges {
		if ids[e.Source] && ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

func filterProperties(props []schema.Property, filter string) []schema.Property {
	if filter == "" {
		if props == nil {
			return []schema.Property{}
		}
		return props
	}
	f := strings.ToLower(filter)
	out := []schema.Property{}
	for _, p := range props {
		if strings.Contains(strings.ToLower(p.Name), f) ||
			strings.Contains(strings.ToLower(p.Description), f) {
			out = append(out, p)
		}
	}
	return out
}

func filterRelationships(rels []schema.Relationship, filter string) []schema.Relationship {
	if filter == "" {
		return rels
	}
	f := strings.ToLower(filter)
	var out []schema.Relationship
	for _, r := range rels {
		if strings.Contains(strings.ToLower(r.SourceProperty), f) ||
			strings.Contains(strings.ToLower(r.TargetEntity), f) {
			out = append(out, r)
		}
	}
	return out
}

func refLabel(ref string) string {
	base := ref
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".min.json")
	base = strings.TrimSuffix(base, ".json")
	return base
}
