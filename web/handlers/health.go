package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GraphStore is the Neo4j surface used by the health and sample routes.
type GraphStore interface {
	Enabled() bool
	CountNodes(ctx context.Context) (int64, error)
	InitSample(ctx context.Context) error
}

type HealthHandler struct {
	store  GraphStore
	logger *zap.Logger
}

func NewHealthHandler(store GraphStore, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Vocabulary Graph API is running")
}

// TestDB reports the Neo4j node count.
func (h *HealthHandler) TestDB(c *gin.Context) {
	if !h.store.Enabled() {
		respondWithClientError(c, http.StatusInternalServerError, "DB Driver not initialized")
		return
	}
	count, err := h.store.CountNodes(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to query database", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// InitSample writes the apple -> fruit pair.
func (h *HealthHandler) InitSample(c *gin.Context) {
	if !h.store.Enabled() {
		respondWithClientError(c, http.StatusInternalServerError, "No DB")
		return
	}
	if err := h.store.InitSample(c.Request.Context()); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to create sample data", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sample data created: apple -> fruit"})
}
