package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
)

func newTestGraphService(t *testing.T) *GraphService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewGraphService(log, nil, nil)
}

func TestSearchPapersBlankQueryReturnsEmpty(t *testing.T) {
	s := newTestGraphService(t)

	results, err := s.SearchPapers(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("blank query must not reach the store: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestSearchEntitiesBlankQueryReturnsEmpty(t *testing.T) {
	s := newTestGraphService(t)

	results, err := s.SearchEntities(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("blank query must not reach the store: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

// A blank graph search means the unfiltered graph, so it must reach the
// store; with none configured that surfaces as an unavailable-store error
// rather than the empty result the other searches return.
func TestGraphBySearchBlankQueryReadsFullGraph(t *testing.T) {
	s := newTestGraphService(t)

	_, _, err := s.GraphBySearch(context.Background(), "  ", 100)
	if err == nil {
		t.Fatalf("blank graph search must attempt the full-graph read")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected unavailable-store error, got %v", err)
	}
}

func TestSearchPapersNonBlankQueryRequiresStore(t *testing.T) {
	s := newTestGraphService(t)

	_, err := s.SearchPapers(context.Background(), "graphs", 10)
	if err == nil {
		t.Fatalf("non-blank query must reach the store")
	}
}
