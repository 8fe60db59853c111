package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scholargraph/scholargraph-backend/internal/data/graph"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/platform/neo4jdb"
	"github.com/scholargraph/scholargraph-backend/internal/platform/redisdb"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

// GraphService answers the read queries. It never mutates the graph; the
// redis cache is best-effort and versioned so ingestion invalidates it.
type GraphService struct {
	log   *logger.Logger
	neo   *neo4jdb.Client
	cache *redisdb.Client
}

func NewGraphService(log *logger.Logger, neo *neo4jdb.Client, cache *redisdb.Client) *GraphService {
	return &GraphService{
		log:   log.With("service", "GraphService"),
		neo:   neo,
		cache: cache,
	}
}

type graphPayload struct {
	Nodes []types.GraphNode `json:"nodes"`
	Edges []types.GraphEdge `json:"edges"`
}

func (s *GraphService) GetGraph(ctx context.Context, limit int) ([]types.GraphNode, []types.GraphEdge, error) {
	key := fmt.Sprintf("kg:v%d:graph:limit=%d", s.cache.Version(ctx), limit)
	return s.cachedGraph(ctx, key, func() ([]types.GraphNode, []types.GraphEdge, error) {
		return graph.GetGraph(ctx, s.neo, s.log, limit)
	})
}

func (s *GraphService) Expand(ctx context.Context, centerID string, depth int) ([]types.GraphNode, []types.GraphEdge, error) {
	return graph.ExpandNode(ctx, s.neo, s.log, centerID, depth)
}

// GraphBySearch returns the unfiltered graph for a blank query. Blank means
// "everything" here while blank paper or entity search means "nothing";
// that asymmetry is deliberate.
func (s *GraphService) GraphBySearch(ctx context.Context, query string, limit int) ([]types.GraphNode, []types.GraphEdge, error) {
	if strings.TrimSpace(query) == "" {
		return s.GetGraph(ctx, limit)
	}
	key := fmt.Sprintf("kg:v%d:graphsearch:q=%s:limit=%d", s.cache.Version(ctx), strings.ToLower(strings.TrimSpace(query)), limit)
	return s.cachedGraph(ctx, key, func() ([]types.GraphNode, []types.GraphEdge, error) {
		return graph.GraphBySearch(ctx, s.neo, s.log, query, limit)
	})
}

func (s *GraphService) SearchPapers(ctx context.Context, query string, limit int) ([]types.PaperResult, error) {
	if strings.TrimSpace(query) == "" {
		return []types.PaperResult{}, nil
	}
	return graph.SearchPapers(ctx, s.neo, s.log, query, limit)
}

func (s *GraphService) SearchEntities(ctx context.Context, query string, limit int) ([]types.EntityResult, error) {
	if strings.TrimSpace(query) == "" {
		return []types.EntityResult{}, nil
	}
	return graph.SearchEntities(ctx, s.neo, s.log, query, limit)
}

func (s *GraphService) PapersByEntity(ctx context.Context, entityID string) ([]types.PaperResult, error) {
	return graph.PapersByEntity(ctx, s.neo, s.log, entityID)
}

func (s *GraphService) PaperGraph(ctx context.Context, paperID string) ([]types.GraphNode, []types.GraphEdge, error) {
	key := fmt.Sprintf("kg:v%d:papergraph:%s", s.cache.Version(ctx), paperID)
	return s.cachedGraph(ctx, key, func() ([]types.GraphNode, []types.GraphEdge, error) {
		return graph.PaperGraph(ctx, s.neo, s.log, paperID)
	})
}

func (s *GraphService) cachedGraph(ctx context.Context, key string, fetch func() ([]types.GraphNode, []types.GraphEdge, error)) ([]types.GraphNode, []types.GraphEdge, error) {
	if raw, ok := s.cache.Get(ctx, key); ok {
		var payload graphPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return payload.Nodes, payload.Edges, nil
		}
	}

	nodes, edges, err := fetch()
	if err != nil {
		return nil, nil, err
	}

	if raw, err := json.Marshal(graphPayload{Nodes: nodes, Edges: edges}); err == nil {
		s.cache.Set(ctx, key, string(raw))
	}
	return nodes, edges, nil
}
