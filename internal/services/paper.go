package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scholargraph/scholargraph-backend/internal/data/graph"
	"github.com/scholargraph/scholargraph-backend/internal/nlp"
	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
	"github.com/scholargraph/scholargraph-backend/internal/platform/envutil"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/platform/neo4jdb"
	"github.com/scholargraph/scholargraph-backend/internal/platform/redisdb"
	"github.com/scholargraph/scholargraph-backend/internal/repos"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

const uploadSnippetLen = 1000

// PaperMeta carries optional bibliographic metadata supplied alongside a
// document. Extra holds fields without a dedicated catalog column (DOI,
// keywords, whatever the uploader sent); they are stored as JSON on the row.
type PaperMeta struct {
	Title   string
	Authors string
	Year    string
	Journal string
	Extra   map[string]any
}

// PaperService orchestrates ingestion: extract text, recognize candidates,
// normalize them, merge into the graph store, and append to the catalog.
type PaperService struct {
	log        *logger.Logger
	neo        *neo4jdb.Client
	cache      *redisdb.Client
	paperRepo  repos.PaperRepo
	recognizer nlp.Recognizer
	extractor  *ContentExtractionService
	uploadDir  string
}

func NewPaperService(
	log *logger.Logger,
	neo *neo4jdb.Client,
	cache *redisdb.Client,
	paperRepo repos.PaperRepo,
	recognizer nlp.Recognizer,
	extractor *ContentExtractionService,
) (*PaperService, error) {
	uploadDir := envutil.Str("UPLOAD_DIR", "./uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("paper service: create upload dir: %w", err)
	}
	return &PaperService{
		log:        log.With("service", "PaperService"),
		neo:        neo,
		cache:      cache,
		paperRepo:  paperRepo,
		recognizer: recognizer,
		extractor:  extractor,
		uploadDir:  uploadDir,
	}, nil
}

// IngestUpload stores an uploaded PDF, extracts its text, and runs the full
// ingestion pipeline. Returns the catalog row and a leading text snippet.
func (s *PaperService) IngestUpload(ctx context.Context, filename string, data []byte, meta PaperMeta) (*types.Paper, string, error) {
	paperID := uuid.NewString()

	dest := filepath.Join(s.uploadDir, paperID+".pdf")
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("store upload: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		s.log.Warn("text extraction failed", "filename", filename, "error", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("no text could be extracted from %s", filename)
	}

	paper, err := s.ingest(ctx, paperID, filepath.Base(filename), text, meta)
	if err != nil {
		return nil, "", err
	}

	snippet := text
	if len(snippet) > uploadSnippetLen {
		snippet = snippet[:uploadSnippetLen]
	}
	return paper, snippet, nil
}

// AddPaper ingests a PDF already on disk. Used by directory processing and
// demo seeding.
func (s *PaperService) AddPaper(ctx context.Context, pdfPath string, meta PaperMeta) (string, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pdfPath, err)
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		s.log.Warn("text extraction failed", "path", pdfPath, "error", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from %s", filepath.Base(pdfPath))
	}

	paper, err := s.ingest(ctx, uuid.NewString(), filepath.Base(pdfPath), text, meta)
	if err != nil {
		return "", err
	}
	return paper.PaperID, nil
}

// IngestText ingests an already-extracted text body under the given id.
// Re-ingestion under the same id overwrites the stored document.
func (s *PaperService) IngestText(ctx context.Context, paperID, filename, text string, meta PaperMeta) (*types.Paper, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text for %s", filename)
	}
	return s.ingest(ctx, paperID, filename, text, meta)
}

func (s *PaperService) ingest(ctx context.Context, paperID, filename, text string, meta PaperMeta) (*types.Paper, error) {
	title := meta.Title
	if title == "" {
		title = deriveTitle(filename, text)
	}

	paper := &types.Paper{
		PaperID:    paperID,
		Filename:   filename,
		Title:      title,
		Authors:    meta.Authors,
		Year:       meta.Year,
		Journal:    meta.Journal,
		UploadDate: time.Now().UTC(),
		TextLength: len(text),
		Extra:      extraJSON(meta.Extra),
	}

	entities, relations, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", filename, err)
	}
	nodes, edges := nlp.NormalizeExtraction(entities, relations)

	if err := graph.UpsertPaper(ctx, s.neo, s.log, paper, text); err != nil {
		return nil, err
	}
	skipped, err := graph.UpsertPaperGraph(ctx, s.neo, s.log, paperID, nodes, edges)
	if err != nil {
		return nil, err
	}

	if err := s.paperRepo.Upsert(ctx, nil, paper); err != nil {
		return nil, fmt.Errorf("catalog append %s: %w", paperID, err)
	}

	s.cache.BumpVersion(ctx)
	s.log.Info("paper ingested",
		"paper_id", paperID,
		"filename", filename,
		"entities", len(nodes),
		"relations", len(edges),
		"edges_skipped", skipped,
	)
	return paper, nil
}

// ProcessText runs the legacy flat-text path: normalize and merge nodes and
// edges with no document linkage, returning what was written.
func (s *PaperService) ProcessText(ctx context.Context, text string) ([]types.EntityCandidate, []types.RelationCandidate, error) {
	entities, relations, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("recognize: %w", err)
	}
	nodes, edges := nlp.NormalizeExtraction(entities, relations)

	if _, err := graph.UpsertGraph(ctx, s.neo, s.log, nodes, edges); err != nil {
		return nil, nil, err
	}
	s.cache.BumpVersion(ctx)
	return nodes, edges, nil
}

// ListPapers returns the catalog listing, newest first.
func (s *PaperService) ListPapers(ctx context.Context) ([]*types.Paper, error) {
	return s.paperRepo.List(ctx, nil)
}

// GetPaper returns one catalog row. A missing row maps to a not-found error
// the handler can surface as a 404.
func (s *PaperService) GetPaper(ctx context.Context, paperID string) (*types.Paper, error) {
	paper, err := s.paperRepo.GetByID(ctx, nil, paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "paper_not_found", fmt.Errorf("no paper with id %s", paperID))
		}
		return nil, fmt.Errorf("catalog get %s: %w", paperID, err)
	}
	return paper, nil
}

func extraJSON(extra map[string]any) datatypes.JSON {
	if len(extra) == 0 {
		return nil
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

const directoryWorkers = 4

// ProcessDirectory ingests every PDF in dir with bounded concurrency. Each
// file's outcome is independent: one corrupt file never aborts the rest.
func (s *PaperService) ProcessDirectory(ctx context.Context, dir string) ([]types.FileOutcome, error) {
	if dir == "" {
		dir = envutil.Str("PAPERS_DIR", "./papers")
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	s.log.Info("processing papers directory", "dir", dir, "files", len(matches))

	outcomes := make([]types.FileOutcome, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(directoryWorkers)
	for i, path := range matches {
		g.Go(func() error {
			name := filepath.Base(path)
			paperID, err := s.AddPaper(gctx, path, PaperMeta{})
			if err != nil {
				s.log.Warn("paper processing failed", "filename", name, "error", err)
				outcomes[i] = types.FileOutcome{Filename: name, Status: "error", Error: err.Error()}
				return nil
			}
			outcomes[i] = types.FileOutcome{Filename: name, PaperID: paperID, Status: "success"}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes, nil
}

// deriveTitle prefers the first plausible line of the text, falling back to
// a cleaned-up filename.
func deriveTitle(filename, text string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
	title = strings.TrimSpace(title)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < 200 && !strings.HasPrefix(strings.ToLower(line), "abstract") {
			return line
		}
		break
	}
	return title
}
