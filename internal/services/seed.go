package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/scholargraph/scholargraph-backend/internal/platform/envutil"
)

type seedPaper struct {
	Title    string `yaml:"title"`
	Authors  string `yaml:"authors"`
	Year     string `yaml:"year"`
	Journal  string `yaml:"journal"`
	Filename string `yaml:"filename"`
	Text     string `yaml:"text"`
}

type seedManifest struct {
	Papers []seedPaper `yaml:"papers"`
}

// SeedDemoPapers ingests the demo manifest when the catalog is empty, so a
// fresh install has something to browse. Missing manifest is not an error.
func (s *PaperService) SeedDemoPapers(ctx context.Context) (int, error) {
	count, err := s.paperRepo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed: count catalog: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	path := envutil.Str("SEED_MANIFEST", "./seed/papers.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no seed manifest found, skipping demo papers", "path", path)
			return 0, nil
		}
		return 0, fmt.Errorf("seed: read manifest %s: %w", path, err)
	}

	var manifest seedManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return 0, fmt.Errorf("seed: parse manifest %s: %w", path, err)
	}

	seeded := 0
	for _, p := range manifest.Papers {
		if p.Text == "" {
			continue
		}
		filename := p.Filename
		if filename == "" {
			filename = "seed.txt"
		}
		meta := PaperMeta{Title: p.Title, Authors: p.Authors, Year: p.Year, Journal: p.Journal}
		if _, err := s.IngestText(ctx, uuid.NewString(), filename, p.Text, meta); err != nil {
			s.log.Warn("seed paper failed", "title", p.Title, "error", err)
			continue
		}
		seeded++
	}
	s.log.Info("demo papers seeded", "count", seeded)
	return seeded, nil
}
