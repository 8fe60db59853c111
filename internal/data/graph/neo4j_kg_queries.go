package graph

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/platform/neo4jdb"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

const defaultGraphLimit = 100

// GetGraph returns up to limit relationship edges with their endpoint
// entities, nodes deduplicated by id. CONTAINS provenance edges never
// appear: the match is constrained to entity endpoints. Ordering beyond
// "first matches found" is not guaranteed when the limit truncates.
func GetGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, limit int) ([]types.GraphNode, []types.GraphEdge, error) {
	if client == nil || client.Driver == nil {
		return nil, nil, storeUnavailable()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = defaultGraphLimit
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := collectEntityGraph(ctx, tx, `
MATCH (n:Entity)-[r]->(m:Entity)
RETURN n, r, m
LIMIT $limit
`, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: get graph: %w", err)
	}
	result := payload.(*entityGraph)
	return result.nodeList(), result.edges, nil
}

// ExpandNode returns the entities reachable from centerID within depth
// relationship hops (undirected), the center itself included, plus every
// relationship edge between two reachable entities. Paths through Paper
// nodes are excluded so containment never leaks into the neighborhood.
// Results are capped and made deterministic by ordering on node id.
func ExpandNode(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, centerID string, depth int) ([]types.GraphNode, []types.GraphEdge, error) {
	if client == nil || client.Driver == nil {
		return nil, nil, storeUnavailable()
	}
	if centerID == "" {
		return nil, nil, fmt.Errorf("graph: missing center id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	depth = clampDepth(depth)

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result := newEntityGraph()

		res, err := tx.Run(ctx, `
MATCH (c:Entity {id: $center_id})
RETURN c
`, map[string]any{"center_id": centerID})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("c"); ok {
				if node, ok := v.(neo4j.Node); ok {
					result.addNode(node)
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		if len(result.nodes) == 0 {
			return nil, apierr.New(http.StatusNotFound, "entity_not_found", fmt.Errorf("no entity with id %s", centerID))
		}

		// Depth is interpolated only after clamping to a small integer
		// range; variable-length bounds cannot be parameterized.
		res, err = tx.Run(ctx, fmt.Sprintf(`
MATCH path = (c:Entity {id: $center_id})-[*1..%d]-(n:Entity)
WHERE none(x IN nodes(path) WHERE x:Paper)
RETURN DISTINCT n
ORDER BY n.id
LIMIT $node_limit
`, depth), map[string]any{"center_id": centerID, "node_limit": expandNodeCap - 1})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("n"); ok {
				if node, ok := v.(neo4j.Node); ok {
					result.addNode(node)
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(result.nodes))
		for id := range result.nodes {
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return result, nil
		}

		res, err = tx.Run(ctx, `
MATCH (a:Entity)-[r]->(b:Entity)
WHERE a.id IN $ids AND b.id IN $ids
RETURN a.id AS src, b.id AS dst, r
ORDER BY src, dst, type(r)
LIMIT $edge_limit
`, map[string]any{"ids": ids, "edge_limit": expandEdgeCap})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			rec := res.Record()
			src, _ := rec.Get("src")
			dst, _ := rec.Get("dst")
			rel, ok := rec.Get("r")
			if !ok {
				continue
			}
			r, ok := rel.(neo4j.Relationship)
			if !ok {
				continue
			}
			srcID, _ := src.(string)
			dstID, _ := dst.(string)
			result.edges = append(result.edges, shapeEdge(r, srcID, dstID))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: expand %s: %w", centerID, err)
	}
	result := payload.(*entityGraph)
	return result.nodeList(), result.edges, nil
}

// GraphBySearch reconstructs the subgraph of entities extracted from papers
// matching the query. Phase 1 collects matching paper ids; no match yields
// empty sets. Phase 2 fetches relationship edges with either endpoint tagged
// by a matching paper. Only entity-to-entity relationships are surfaced.
func GraphBySearch(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, query string, limit int) ([]types.GraphNode, []types.GraphEdge, error) {
	if client == nil || client.Driver == nil {
		return nil, nil, storeUnavailable()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = defaultGraphLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p:Paper)
WHERE toLower(p.title) CONTAINS $q
   OR toLower(p.text) CONTAINS $q
   OR toLower(coalesce(p.authors, '')) CONTAINS $q
RETURN collect(p.paper_id) AS paper_ids
`, map[string]any{"q": q})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		paperIDs := stringList(rec, "paper_ids")
		if len(paperIDs) == 0 {
			return newEntityGraph(), nil
		}

		result, err := collectEntityGraph(ctx, tx, `
MATCH (n:Entity)-[r]->(m:Entity)
WHERE n.paper_id IN $paper_ids OR m.paper_id IN $paper_ids
RETURN n, r, m
LIMIT $limit
`, map[string]any{"paper_ids": paperIDs, "limit": limit})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: graph by search: %w", err)
	}
	result := payload.(*entityGraph)
	return result.nodeList(), result.edges, nil
}

// SearchPapers matches the query case-insensitively against title, text,
// authors, and journal. Title matches rank first, newest upload first within
// a tier. The ordering happens in Cypher over the full match set before the
// limit is applied, so a title match is never pushed out by body-only
// matches; the Go ranker re-asserts the same order on the returned page.
func SearchPapers(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, query string, limit int) ([]types.PaperResult, error) {
	if client == nil || client.Driver == nil {
		return nil, storeUnavailable()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(strings.TrimSpace(query))

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p:Paper)
WHERE toLower(p.title) CONTAINS $q
   OR toLower(p.text) CONTAINS $q
   OR toLower(coalesce(p.authors, '')) CONTAINS $q
   OR toLower(coalesce(p.journal, '')) CONTAINS $q
RETURN p
ORDER BY CASE WHEN toLower(p.title) CONTAINS $q THEN 0 ELSE 1 END,
         p.upload_date DESC
LIMIT $limit
`, map[string]any{"q": q, "limit": limit})
		if err != nil {
			return nil, err
		}
		papers := []types.PaperResult{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("p"); ok {
				if node, ok := v.(neo4j.Node); ok {
					papers = append(papers, shapePaper(node.Props))
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return papers, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph: search papers: %w", err)
	}

	papers := payload.([]types.PaperResult)
	rankPaperResults(papers, query)
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// SearchEntities matches entities whose name or type contains the query.
func SearchEntities(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, query string, limit int) ([]types.EntityResult, error) {
	if client == nil || client.Driver == nil {
		return nil, storeUnavailable()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 50
	}
	q := strings.ToLower(strings.TrimSpace(query))

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (e:Entity)
WHERE toLower(e.name) CONTAINS $q
   OR toLower(coalesce(e.type, '')) CONTAINS $q
RETURN DISTINCT e
LIMIT $limit
`, map[string]any{"q": q, "limit": limit})
		if err != nil {
			return nil, err
		}
		entities := []types.EntityResult{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("e"); ok {
				if node, ok := v.(neo4j.Node); ok {
					entities = append(entities, types.EntityResult{
						ID:         stringProp(node.Props, "id"),
						Name:       stringProp(node.Props, "name"),
						Type:       stringProp(node.Props, "type"),
						PaperID:    stringProp(node.Props, "paper_id"),
						Properties: node.Props,
					})
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return entities, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph: search entities: %w", err)
	}
	return payload.([]types.EntityResult), nil
}

// PapersByEntity returns the papers linked to the entity by CONTAINS edges,
// newest upload first.
func PapersByEntity(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, entityID string) ([]types.PaperResult, error) {
	if client == nil || client.Driver == nil {
		return nil, storeUnavailable()
	}
	if entityID == "" {
		return nil, fmt.Errorf("graph: missing entity id")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p:Paper)-[:CONTAINS]->(e:Entity {id: $entity_id})
RETURN p
ORDER BY p.upload_date DESC
`, map[string]any{"entity_id": entityID})
		if err != nil {
			return nil, err
		}
		papers := []types.PaperResult{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("p"); ok {
				if node, ok := v.(neo4j.Node); ok {
					paper := shapePaper(node.Props)
					paper.TextSnippet = ""
					papers = append(papers, paper)
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return papers, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph: papers by entity %s: %w", entityID, err)
	}
	return payload.([]types.PaperResult), nil
}

// PaperGraph returns the entities a single paper contains plus the
// relationships among them. Entities without relationships still appear as
// isolated nodes.
func PaperGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, paperID string) ([]types.GraphNode, []types.GraphEdge, error) {
	if client == nil || client.Driver == nil {
		return nil, nil, storeUnavailable()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	payload, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result := newEntityGraph()

		res, err := tx.Run(ctx, `
MATCH (p:Paper {paper_id: $paper_id})-[:CONTAINS]->(e:Entity)
RETURN e
`, map[string]any{"paper_id": paperID})
		if err != nil {
			return nil, err
		}
		ids := []string{}
		for res.Next(ctx) {
			ev, _ := res.Record().Get("e")
			e, ok := ev.(neo4j.Node)
			if !ok {
				continue
			}
			result.addNode(e)
			if id := stringProp(e.Props, "id"); id != "" {
				ids = append(ids, id)
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return result, nil
		}

		res, err = tx.Run(ctx, `
MATCH (n:Entity)-[r]->(m:Entity)
WHERE n.id IN $ids AND m.id IN $ids
RETURN n, r, m
`, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			rec := res.Record()
			nv, _ := rec.Get("n")
			mv, _ := rec.Get("m")
			rv, _ := rec.Get("r")
			n, nok := nv.(neo4j.Node)
			m, mok := mv.(neo4j.Node)
			r, rok := rv.(neo4j.Relationship)
			if !nok || !mok || !rok {
				continue
			}
			result.edges = append(result.edges, shapeEdge(r, stringProp(n.Props, "id"), stringProp(m.Props, "id")))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: paper graph %s: %w", paperID, err)
	}
	result := payload.(*entityGraph)
	return result.nodeList(), result.edges, nil
}

// entityGraph accumulates a deduplicated node set and edge list while
// walking (n, r, m) records.
type entityGraph struct {
	nodes map[string]types.GraphNode
	edges []types.GraphEdge
}

func newEntityGraph() *entityGraph {
	return &entityGraph{nodes: make(map[string]types.GraphNode), edges: []types.GraphEdge{}}
}

func (g *entityGraph) addNode(n neo4j.Node) {
	shaped := shapeNode(n)
	if shaped.ID == "" {
		return
	}
	if _, ok := g.nodes[shaped.ID]; !ok {
		g.nodes[shaped.ID] = shaped
	}
}

func (g *entityGraph) nodeList() []types.GraphNode {
	out := make([]types.GraphNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func collectEntityGraph(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (*entityGraph, error) {
	result := newEntityGraph()
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	for res.Next(ctx) {
		rec := res.Record()
		nv, _ := rec.Get("n")
		mv, _ := rec.Get("m")
		rv, _ := rec.Get("r")
		n, nok := nv.(neo4j.Node)
		m, mok := mv.(neo4j.Node)
		r, rok := rv.(neo4j.Relationship)
		if !nok || !mok || !rok {
			continue
		}
		result.addNode(n)
		result.addNode(m)
		result.edges = append(result.edges, shapeEdge(r, stringProp(n.Props, "id"), stringProp(m.Props, "id")))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func stringList(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
