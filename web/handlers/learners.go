package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	apperrors "vocab-graph/errors"
	"vocab-graph/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SimulatedWords is how many history links /learners/:id/simulate writes.
const SimulatedWords = 20

// LearnerStore manages learners in Neo4j.
type LearnerStore interface {
	InitLearners(ctx context.Context) error
	SimulateHistory(ctx context.Context, learnerID string, count int, rng *rand.Rand) (int, error)
}

// ProgressStore summarizes logged attempts.
type ProgressStore interface {
	LearnerProgress(ctx context.Context, learnerID string) (types.LearnerProgress, error)
}

type LearnerHandler struct {
	store    LearnerStore
	progress ProgressStore
	logger   *zap.Logger
}

func NewLearnerHandler(store LearnerStore, progress ProgressStore, logger *zap.Logger) *LearnerHandler {
	return &LearnerHandler{
		store:    store,
		progress: progress,
		logger:   logger,
	}
}

func (h *LearnerHandler) Init(c *gin.Context) {
	if err := h.store.InitLearners(c.Request.Context()); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to initialize learners", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Initialized 3 learners: Novice, Intermediate, Advanced"})
}

func (h *LearnerHandler) Simulate(c *gin.Context) {
	learnerID, ok := learnerParam(c, "id")
	if !ok {
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	linked, err := h.store.SimulateHistory(c.Request.Context(), learnerID, SimulatedWords, rng)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to simulate history", h.logger, zap.String("learner", learnerID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Simulated history for %s: %d words linked.", learnerID, linked)})
}

func (h *LearnerHandler) Progress(c *gin.Context) {
	learnerID, ok := learnerParam(c, "id")
	if !ok {
		return
	}
	progress, err := h.progress.LearnerProgress(c.Request.Context(), learnerID)
	if err != nil {
		if apperrors.IsServiceUnavailable(err) {
			respondWithClientError(c, http.StatusServiceUnavailable, "Attempt log not configured")
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "Failed to load progress", h.logger, zap.String("learner", learnerID))
		return
	}
	c.JSON(http.StatusOK, progress)
}
