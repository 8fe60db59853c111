package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

func TestDeriveTitlePrefersFirstLine(t *testing.T) {
	text := "A Study of Knowledge Graphs\n\nAbstract\nLong body text follows."
	if got := deriveTitle("paper.pdf", text); got != "A Study of Knowledge Graphs" {
		t.Fatalf("deriveTitle = %q", got)
	}
}

func TestDeriveTitleSkipsAbstractHeading(t *testing.T) {
	text := "Abstract\nThis paper studies graphs."
	if got := deriveTitle("graph_survey-2024.pdf", text); got != "graph survey 2024" {
		t.Fatalf("deriveTitle = %q", got)
	}
}

func TestDeriveTitleFallsBackToFilename(t *testing.T) {
	if got := deriveTitle("my_paper-final.pdf", ""); got != "my paper final" {
		t.Fatalf("deriveTitle = %q", got)
	}
}

type stubPaperRepo struct {
	paper *types.Paper
	err   error
}

func (r *stubPaperRepo) Upsert(ctx context.Context, tx *gorm.DB, paper *types.Paper) error {
	return nil
}

func (r *stubPaperRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Paper, error) {
	return nil, nil
}

func (r *stubPaperRepo) GetByID(ctx context.Context, tx *gorm.DB, paperID string) (*types.Paper, error) {
	return r.paper, r.err
}

func (r *stubPaperRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

func newPaperServiceWithRepo(t *testing.T, repo *stubPaperRepo) *PaperService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &PaperService{log: log, paperRepo: repo}
}

func TestGetPaperMapsMissingRowToNotFound(t *testing.T) {
	s := newPaperServiceWithRepo(t, &stubPaperRepo{err: gorm.ErrRecordNotFound})

	_, err := s.GetPaper(context.Background(), "nope")
	if err == nil {
		t.Fatalf("expected error for missing paper")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected status-carrying error, got %v", err)
	}
	if ae.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", ae.Status, http.StatusNotFound)
	}
}

func TestGetPaperReturnsRow(t *testing.T) {
	want := &types.Paper{PaperID: "p1", Title: "A Title"}
	s := newPaperServiceWithRepo(t, &stubPaperRepo{paper: want})

	got, err := s.GetPaper(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.PaperID != "p1" || got.Title != "A Title" {
		t.Fatalf("unexpected paper %+v", got)
	}
}

func TestExtraJSONRoundTrip(t *testing.T) {
	if got := extraJSON(nil); got != nil {
		t.Fatalf("empty extra must stay nil, got %s", got)
	}

	raw := extraJSON(map[string]any{"doi": "10.1000/xyz"})
	if raw == nil {
		t.Fatalf("expected marshalled extra")
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["doi"] != "10.1000/xyz" {
		t.Fatalf("doi = %v", decoded["doi"])
	}
}
