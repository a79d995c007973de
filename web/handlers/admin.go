package handlers

import (
	"context"
	"net/http"

	"vocab-graph/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Importer loads the configured CSV into Neo4j.
type Importer interface {
	Import(ctx context.Context) (types.ImportStats, error)
}

// Tutor explains a word the learner struggles with.
type Tutor interface {
	RecommendAndExplain(ctx context.Context, learnerID string) (types.Explanation, error)
}

type AdminHandler struct {
	importer Importer
	logger   *zap.Logger
}

func NewAdminHandler(importer Importer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		importer: importer,
		logger:   logger,
	}
}

func (h *AdminHandler) ImportCSV(c *gin.Context) {
	stats, err := h.importer.Import(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Import failed", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import completed", "stats": stats})
}

type AgentHandler struct {
	tutor  Tutor
	logger *zap.Logger
}

func NewAgentHandler(tutor Tutor, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		tutor:  tutor,
		logger: logger,
	}
}

// Recommend returns a tutor explanation. LLM outages still answer 200 with
// the offline message.
func (h *AgentHandler) Recommend(c *gin.Context) {
	learnerID, ok := learnerParam(c, "learnerId")
	if !ok {
		return
	}
	result, err := h.tutor.RecommendAndExplain(c.Request.Context(), learnerID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to get recommendation", h.logger, zap.String("learner", learnerID))
		return
	}
	c.JSON(http.StatusOK, result)
}
