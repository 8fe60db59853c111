package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/scholargraph/scholargraph-backend/internal/platform/envutil"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
)

// ContentExtractionService turns PDF bytes into plain text by shelling out
// to pdftotext. Extraction is best-effort: a corrupt file yields an empty
// string and an error for the caller to report, never a panic.
type ContentExtractionService struct {
	log     *logger.Logger
	timeout time.Duration
}

func NewContentExtractionService(log *logger.Logger) *ContentExtractionService {
	return &ContentExtractionService{
		log:     log.With("service", "ContentExtractionService"),
		timeout: envutil.Duration("PDF_EXTRACT_TIMEOUT", 30*time.Second),
	}
}

var multiBlankRe = regexp.MustCompile(`\n{3,}`)

func (s *ContentExtractionService) ExtractText(ctx context.Context, pdfBytes []byte) (string, error) {
	if len(pdfBytes) == 0 {
		return "", fmt.Errorf("extract: empty input")
	}
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("extract: pdftotext not found in PATH: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "pdfextract-")
	if err != nil {
		return "", fmt.Errorf("extract: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o600); err != nil {
		return "", fmt.Errorf("extract: write temp pdf: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(
		runCtx,
		"pdftotext",
		"-enc", "UTF-8",
		"-eol", "unix",
		"-nopgbrk",
		"-q",
		pdfPath,
		"-",
	)
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")

	out, err := cmd.Output()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("extract: pdftotext timed out after %s", s.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("extract: pdftotext: %w", err)
	}

	text := strings.ReplaceAll(string(out), "\r", "")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
