package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sucrecam/backend/internal/domain"
	"github.com/sucrecam/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	session  *usecase.ScanSession
	resolver *usecase.ResolverService
	layout   *usecase.LayoutEngine
}

// NewHandler creates a new HTTP handler
func NewHandler(session *usecase.ScanSession, resolver *usecase.ResolverService, layout *usecase.LayoutEngine) *Handler {
	return &Handler{
		session:  session,
		resolver: resolver,
		layout:   layout,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sucrecam-backend",
		"version": "1.0.0",
	})
}

// Scan handles a decoded barcode payload: normalize, resolve, lay out cubes
func (h *Handler) Scan(c *gin.Context) {
	var req domain.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is required"})
		return
	}

	result, err := h.session.Scan(c.Request.Context(), req)
	if err != nil {
		h.writeResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct resolves a canonical identifier without touching session state
func (h *Handler) GetProduct(c *gin.Context) {
	code := c.Param("code")

	product, err := h.resolver.ResolveCode(c.Request.Context(), code)
	if err != nil {
		h.writeResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// layoutRequest asks for a cube pyramid without re-resolving a product
type layoutRequest struct {
	CubeCount int               `json:"cubeCount" binding:"min=0"`
	Anchor    *domain.AnchorBox `json:"anchor,omitempty"`
}

// BuildLayout recomputes a cube layout, e.g. when the detection box moved
func (h *Handler) BuildLayout(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cubeCount must be a non-negative integer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"layout": h.layout.Build(req.CubeCount, req.Anchor)})
}

// ResetSession clears the current scan candidate (e.g. camera switched)
func (h *Handler) ResetSession(c *gin.Context) {
	h.session.Reset()
	c.Status(http.StatusNoContent)
}

// writeResolveError maps pipeline outcomes to HTTP statuses. Raw transport
// and parsing errors never reach the client.
func (h *Handler) writeResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unsupported barcode"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition source unavailable"})
	case errors.Is(err, domain.ErrScanInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "a scan is already in progress"})
	case errors.Is(err, domain.ErrStaleScan):
		c.JSON(http.StatusConflict, gin.H{"error": "scan was superseded"})
	default:
		log.Printf("[HTTP] Unexpected resolve error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
