package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/services"
)

const maxUploadBytes = 50 << 20

type PaperHandler struct {
	log          *logger.Logger
	paperService *services.PaperService
	graphService *services.GraphService
}

func NewPaperHandler(log *logger.Logger, psvc *services.PaperService, gsvc *services.GraphService) *PaperHandler {
	return &PaperHandler{
		log:          log.With("handler", "PaperHandler"),
		paperService: psvc,
		graphService: gsvc,
	}
}

// POST /upload-pdf
// Multipart upload of a single PDF plus optional bibliographic fields.
func (h *PaperHandler) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("multipart field 'file' is required"))
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		RespondError(c, http.StatusBadRequest, "invalid_file_type", fmt.Errorf("only .pdf files are accepted"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("upload exceeds %d bytes", maxUploadBytes))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	meta := services.PaperMeta{
		Title:   c.PostForm("title"),
		Authors: c.PostForm("authors"),
		Year:    c.PostForm("year"),
		Journal: c.PostForm("journal"),
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		meta.Extra = extraFormFields(form.Value)
	}

	paper, snippet, err := h.paperService.IngestUpload(c.Request.Context(), fileHeader.Filename, data, meta)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "ingest_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"file_id":      paper.PaperID,
		"filename":     paper.Filename,
		"title":        paper.Title,
		"text_snippet": snippet,
	})
}

// extraFormFields keeps upload-form fields that have no dedicated catalog
// column so they survive on the paper row.
func extraFormFields(values map[string][]string) map[string]any {
	extra := make(map[string]any)
	for key, vals := range values {
		switch key {
		case "title", "authors", "year", "journal":
			continue
		}
		if len(vals) > 0 && vals[0] != "" {
			extra[key] = vals[0]
		}
	}
	return extra
}

// GET /papers
func (h *PaperHandler) ListPapers(c *gin.Context) {
	papers, err := h.paperService.ListPapers(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"papers": papers, "count": len(papers)})
}

// GET /papers/:paper_id
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.paperService.GetPaper(c.Request.Context(), c.Param("paper_id"))
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, paper)
}

// GET /papers/search?q=&limit=
func (h *PaperHandler) SearchPapers(c *gin.Context) {
	query := c.Query("q")
	limit := intQuery(c, "limit", 20)
	results, err := h.graphService.SearchPapers(c.Request.Context(), query, limit)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"papers": results, "count": len(results)})
}

type processDirectoryRequest struct {
	Directory string `json:"directory"`
}

// POST /papers/process-directory
// Ingests every PDF in the configured (or supplied) directory. Per-file
// failures are reported in the results, not as a request failure.
func (h *PaperHandler) ProcessDirectory(c *gin.Context) {
	var req processDirectoryRequest
	_ = c.ShouldBindJSON(&req)

	outcomes, err := h.paperService.ProcessDirectory(c.Request.Context(), req.Directory)
	if err != nil {
		RespondErr(c, err)
		return
	}
	processed := 0
	for _, o := range outcomes {
		if o.Status == "success" {
			processed++
		}
	}
	RespondOK(c, gin.H{"results": outcomes, "processed": processed, "total": len(outcomes)})
}

// POST /papers/initialize
// Seeds the demo corpus when the catalog is empty.
func (h *PaperHandler) Initialize(c *gin.Context) {
	seeded, err := h.paperService.SeedDemoPapers(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"seeded": seeded})
}
