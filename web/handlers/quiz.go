package handlers

import (
	"context"
	"errors"
	"net/http"

	apperrors "vocab-graph/errors"
	"vocab-graph/quiz"
	"vocab-graph/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuizProvider generates and grades quizzes.
type QuizProvider interface {
	ForWord(word, kind string) (types.QuizItem, error)
	ForLearner(ctx context.Context, learnerID string) (types.QuizItem, error)
	SubmitForLearner(ctx context.Context, learnerID string, sub types.QuizSubmission) error
	Submit(ctx context.Context, sub types.QuizSubmission) types.Attempt
}

type QuizHandler struct {
	quiz   QuizProvider
	logger *zap.Logger
}

func NewQuizHandler(quiz QuizProvider, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quiz:   quiz,
		logger: logger,
	}
}

// LearnerQuiz returns the learner's next review question.
func (h *QuizHandler) LearnerQuiz(c *gin.Context) {
	learnerID, ok := learnerParam(c, "learnerId")
	if !ok {
		return
	}
	item, err := h.quiz.ForLearner(c.Request.Context(), learnerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No quiz items available"})
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "Failed to generate quiz", h.logger, zap.String("learner", learnerID))
		return
	}
	c.JSON(http.StatusOK, item)
}

// SubmitLearner records the learner's answer.
func (h *QuizHandler) SubmitLearner(c *gin.Context) {
	learnerID, ok := learnerParam(c, "learnerId")
	if !ok {
		return
	}
	var sub types.QuizSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Failed to process submission")
		return
	}
	if err := h.quiz.SubmitForLearner(c.Request.Context(), learnerID, sub); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Failed to record result", h.logger, zap.String("learner", learnerID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// IndexQuiz builds a question from the snapshot: ?word= and ?type=.
func (h *QuizHandler) IndexQuiz(c *gin.Context) {
	item, err := h.quiz.ForWord(c.Query("word"), c.Query("type"))
	if err != nil {
		switch {
		case apperrors.IsInvalidInput(err):
			respondWithClientError(c, http.StatusBadRequest, "Unknown quiz type")
		case errors.Is(err, quiz.ErrNotEnoughData):
			respondWithClientError(c, http.StatusInternalServerError, "Not enough vocabulary data")
		default:
			respondWithError(c, http.StatusInternalServerError, err, "Graph data not available", h.logger)
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// Submit records an answer to an index quiz.
func (h *QuizHandler) Submit(c *gin.Context) {
	var sub types.QuizSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Failed to process submission")
		return
	}
	attempt := h.quiz.Submit(c.Request.Context(), sub)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Result recorded",
		"wordId":    attempt.WordID,
		"isCorrect": attempt.IsCorrect,
	})
}
