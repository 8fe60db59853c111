package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/platform/neo4jdb"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

const maxStoredTextLen = 200_000

// UpsertPaper merge-writes the Paper node keyed by paper_id. Supplied
// properties overwrite stored ones of the same key; properties absent from
// this call are preserved.
func UpsertPaper(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, paper *types.Paper, text string) error {
	if client == nil || client.Driver == nil {
		return storeUnavailable()
	}
	if paper == nil || paper.PaperID == "" {
		return fmt.Errorf("graph: missing paper id")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	props := map[string]any{
		"paper_id": paper.PaperID,
		"filename": paper.Filename,
		"title":    paper.Title,
		"text":     truncateString(text, maxStoredTextLen),
		// Whole-second RFC 3339 keeps the stored strings fixed width; Cypher
		// orders upload_date by string comparison.
		"upload_date": paper.UploadDate.UTC().Format(time.RFC3339),
		"text_length": int64(paper.TextLength),
	}
	if paper.Authors != "" {
		props["authors"] = paper.Authors
	}
	if paper.Year != "" {
		props["year"] = paper.Year
	}
	if paper.Journal != "" {
		props["journal"] = paper.Journal
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	ensureSchema(ctx, session, log)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runConsume(ctx, tx, `
MERGE (p:Paper {paper_id: $paper_id})
SET p += $props
`, map[string]any{"paper_id": paper.PaperID, "props": props})
	})
	if err != nil {
		return fmt.Errorf("graph: upsert paper %s: %w", paper.PaperID, err)
	}
	return nil
}

// UpsertPaperGraph merge-writes one document's normalized extraction output:
// entity nodes, CONTAINS provenance edges from the paper, and relationship
// edges between entities. Every write merges by identity, so replaying a
// batch is a no-op. Relationship edges whose endpoints are missing from both
// this batch and the store are skipped; the count of skipped edges is
// returned for the caller to report.
func UpsertPaperGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, paperID string, nodes []types.EntityCandidate, edges []types.RelationCandidate) (int, error) {
	if client == nil || client.Driver == nil {
		return 0, storeUnavailable()
	}
	if paperID == "" {
		return 0, fmt.Errorf("graph: missing paper id")
	}
	return upsertEntityGraph(ctx, client, log, paperID, nodes, edges)
}

// UpsertGraph is the legacy flat-text mode: the same node and edge merging
// without document linkage. It must not create CONTAINS edges.
func UpsertGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, nodes []types.EntityCandidate, edges []types.RelationCandidate) (int, error) {
	if client == nil || client.Driver == nil {
		return 0, storeUnavailable()
	}
	return upsertEntityGraph(ctx, client, log, "", nodes, edges)
}

func upsertEntityGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, paperID string, nodes []types.EntityCandidate, edges []types.RelationCandidate) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339)

	nodeRows := make([]map[string]any, 0, len(nodes))
	labelIDs := make(map[string][]string)
	nodeIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		label := EntityTypeLabel(n.Type)
		props := make(map[string]any, len(n.Properties)+4)
		for k, v := range n.Properties {
			props[k] = v
		}
		props["name"] = n.Name
		props["type"] = label
		props["synced_at"] = now
		if paperID != "" {
			props["paper_id"] = paperID
		}
		nodeRows = append(nodeRows, map[string]any{"id": n.ID, "props": props})
		nodeIDs = append(nodeIDs, n.ID)
		if label != genericEntityLabel {
			labelIDs[label] = append(labelIDs[label], n.ID)
		}
	}

	relRows := make(map[string][]map[string]any)
	totalEdges := 0
	for _, e := range edges {
		if e.SourceID == "" || e.TargetID == "" {
			continue
		}
		relType := RelationTypeLabel(e.Label)
		props := make(map[string]any, len(e.Properties)+2)
		for k, v := range e.Properties {
			props[k] = v
		}
		props["synced_at"] = now
		if paperID != "" {
			props["paper_id"] = paperID
		}
		relRows[relType] = append(relRows[relType], map[string]any{
			"source": e.SourceID,
			"target": e.TargetID,
			"props":  props,
		})
		totalEdges++
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	ensureSchema(ctx, session, log)

	merged := 0
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		merged = 0

		if paperID != "" {
			if err := runConsume(ctx, tx, `
MERGE (p:Paper {paper_id: $paper_id})
`, map[string]any{"paper_id": paperID}); err != nil {
				return nil, err
			}
		}

		if len(nodeRows) > 0 {
			if err := runConsume(ctx, tx, `
UNWIND $nodes AS n
MERGE (e:Entity {id: n.id})
SET e += n.props
`, map[string]any{"nodes": nodeRows}); err != nil {
				return nil, err
			}
		}

		// Secondary type labels, one statement per whitelisted label.
		for label, ids := range labelIDs {
			if err := runConsume(ctx, tx, fmt.Sprintf(`
MATCH (e:Entity)
WHERE e.id IN $ids
SET e:%s
`, label), map[string]any{"ids": ids}); err != nil {
				return nil, err
			}
		}

		if paperID != "" && len(nodeIDs) > 0 {
			if err := runConsume(ctx, tx, `
MATCH (p:Paper {paper_id: $paper_id})
UNWIND $ids AS eid
MATCH (e:Entity {id: eid})
MERGE (p)-[:CONTAINS]->(e)
`, map[string]any{"paper_id": paperID, "ids": nodeIDs}); err != nil {
				return nil, err
			}
		}

		// Relationship edges, one statement per whitelisted type. Endpoints
		// are matched rather than merged so an edge referencing an unknown
		// entity is dropped instead of stored dangling.
		for relType, rows := range relRows {
			count, err := runMergedCount(ctx, tx, fmt.Sprintf(`
UNWIND $rels AS r
MATCH (a:Entity {id: r.source})
MATCH (b:Entity {id: r.target})
MERGE (a)-[x:%s]->(b)
SET x += r.props
RETURN count(x) AS merged
`, relType), map[string]any{"rels": rows})
			if err != nil {
				return nil, err
			}
			merged += count
		}

		return nil, nil
	})
	if err != nil {
		return 0, fmt.Errorf("graph: upsert entity graph: %w", err)
	}

	skipped := totalEdges - merged
	if skipped > 0 && log != nil {
		log.Warn("relationship edges skipped (missing endpoints)", "skipped", skipped, "paper_id", paperID)
	}
	return skipped, nil
}

// ensureSchema creates the identity constraints. Best-effort: restricted
// users may not be allowed to manage schema.
func ensureSchema(ctx context.Context, session neo4j.SessionWithContext, log *logger.Logger) {
	stmts := []string{
		`CREATE CONSTRAINT paper_id_unique IF NOT EXISTS FOR (p:Paper) REQUIRE p.paper_id IS UNIQUE`,
		`CREATE CONSTRAINT entity_id_unique IF NOT EXISTS FOR (e:Entity) REQUIRE e.id IS UNIQUE`,
	}
	for _, q := range stmts {
		if res, err := session.Run(ctx, q, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func runConsume(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func runMergedCount(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (int, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	if v, ok := rec.Get("merged"); ok {
		if n, ok := v.(int64); ok {
			return int(n), nil
		}
	}
	return 0, nil
}
