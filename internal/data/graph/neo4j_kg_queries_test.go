package graph

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
)

func assertStoreUnavailable(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with no store configured")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected status-carrying error, got %v", err)
	}
	if ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", ae.Status, http.StatusServiceUnavailable)
	}
}

func TestReadsFailUnavailableWithoutStore(t *testing.T) {
	ctx := context.Background()

	_, _, err := GetGraph(ctx, nil, nil, 10)
	assertStoreUnavailable(t, err)

	_, _, err = ExpandNode(ctx, nil, nil, "ent-1", 2)
	assertStoreUnavailable(t, err)

	_, _, err = GraphBySearch(ctx, nil, nil, "graphs", 10)
	assertStoreUnavailable(t, err)

	_, err = SearchPapers(ctx, nil, nil, "graphs", 10)
	assertStoreUnavailable(t, err)

	_, err = SearchEntities(ctx, nil, nil, "graphs", 10)
	assertStoreUnavailable(t, err)

	_, err = PapersByEntity(ctx, nil, nil, "ent-1")
	assertStoreUnavailable(t, err)

	_, _, err = PaperGraph(ctx, nil, nil, "p1")
	assertStoreUnavailable(t, err)
}

func TestWritesFailUnavailableWithoutStore(t *testing.T) {
	ctx := context.Background()

	_, err := UpsertGraph(ctx, nil, nil, nil, nil)
	assertStoreUnavailable(t, err)

	_, err = UpsertPaperGraph(ctx, nil, nil, "p1", nil, nil)
	assertStoreUnavailable(t, err)
}
