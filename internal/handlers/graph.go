package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/services"
)

type GraphHandler struct {
	log          *logger.Logger
	graphService *services.GraphService
	paperService *services.PaperService
}

func NewGraphHandler(log *logger.Logger, gsvc *services.GraphService, psvc *services.PaperService) *GraphHandler {
	return &GraphHandler{
		log:          log.With("handler", "GraphHandler"),
		graphService: gsvc,
		paperService: psvc,
	}
}

type processTextRequest struct {
	Text string `json:"text"`
}

// POST /process-text
// Extracts and merges entities from raw text with no document linkage.
func (h *GraphHandler) ProcessText(c *gin.Context) {
	var req processTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "empty_text", fmt.Errorf("field 'text' is required"))
		return
	}

	nodes, edges, err := h.paperService.ProcessText(c.Request.Context(), req.Text)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"entities": nodes, "relations": edges})
}

// GET /graph?limit=
func (h *GraphHandler) GetGraph(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	nodes, edges, err := h.graphService.GetGraph(c.Request.Context(), limit)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"nodes": nodes, "edges": edges})
}

// GET /graph/:center_id/expand?depth=
func (h *GraphHandler) ExpandNode(c *gin.Context) {
	centerID := c.Param("center_id")
	depth := intQuery(c, "depth", 1)
	nodes, edges, err := h.graphService.Expand(c.Request.Context(), centerID, depth)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"nodes": nodes, "edges": edges})
}

// GET /graph/search?q=&limit=
func (h *GraphHandler) GraphBySearch(c *gin.Context) {
	query := c.Query("q")
	limit := intQuery(c, "limit", 100)
	nodes, edges, err := h.graphService.GraphBySearch(c.Request.Context(), query, limit)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"nodes": nodes, "edges": edges})
}

// GET /entities/search?q=&limit=
func (h *GraphHandler) SearchEntities(c *gin.Context) {
	query := c.Query("q")
	limit := intQuery(c, "limit", 20)
	results, err := h.graphService.SearchEntities(c.Request.Context(), query, limit)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"entities": results, "count": len(results)})
}

// GET /entities/:entity_id/papers
func (h *GraphHandler) PapersByEntity(c *gin.Context) {
	entityID := c.Param("entity_id")
	papers, err := h.graphService.PapersByEntity(c.Request.Context(), entityID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"papers": papers, "count": len(papers)})
}

// GET /papers/:paper_id/graph
func (h *GraphHandler) PaperGraph(c *gin.Context) {
	paperID := c.Param("paper_id")
	nodes, edges, err := h.graphService.PaperGraph(c.Request.Context(), paperID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"nodes": nodes, "edges": edges})
}
