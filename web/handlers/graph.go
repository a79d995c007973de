package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	apperrors "vocab-graph/errors"
	"vocab-graph/graph"
	"vocab-graph/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Searcher resolves a word to a visualization, never failing.
type Searcher interface {
	Search(ctx context.Context, word string) (graph.Visualization, string)
}

// WordSource answers word-level queries from the snapshot index.
type WordSource interface {
	Stats() (graph.Stats, error)
	WordProperties(word string) (graph.Properties, error)
	Synonyms(word string, limit int) []string
	Antonyms(word string, limit int) []string
}

type GraphHandler struct {
	search Searcher
	source WordSource
	logger *zap.Logger
}

func NewGraphHandler(search Searcher, source WordSource, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		search: search,
		source: source,
		logger: logger,
	}
}

// Search returns the neighborhood graph of a word.
func (h *GraphHandler) Search(c *gin.Context) {
	word := strings.TrimSpace(c.Param("word"))
	if word == "" {
		respondWithClientError(c, http.StatusBadRequest, "Word parameter is required")
		return
	}

	vis, source := h.search.Search(c.Request.Context(), word)
	c.Header("X-Graph-Source", source)
	c.JSON(http.StatusOK, vis)
}

// Stats returns node and edge counts of the snapshot.
func (h *GraphHandler) Stats(c *gin.Context) {
	stats, err := h.source.Stats()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Graph data not available", h.logger)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Word returns the stored properties of a word.
func (h *GraphHandler) Word(c *gin.Context) {
	word := utils.NormalizeWord(c.Param("word"))
	props, err := h.source.WordProperties(word)
	if err != nil {
		if apperrors.IsNotFound(err) {
			respondWithClientError(c, http.StatusNotFound, "Word not found")
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "Graph data not available", h.logger, zap.String("word", word))
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word, "properties": props})
}

func (h *GraphHandler) Synonyms(c *gin.Context) {
	h.related(c, "synonyms", h.source.Synonyms)
}

func (h *GraphHandler) Antonyms(c *gin.Context) {
	h.related(c, "antonyms", h.source.Antonyms)
}

func (h *GraphHandler) related(c *gin.Context, key string, lookup func(string, int) []string) {
	word := utils.NormalizeWord(c.Param("word"))
	limit := graph.DefaultRelatedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithClientError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"word": word, key: lookup(word, limit)})
}
