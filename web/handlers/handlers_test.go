package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "vocab-graph/errors"
	"vocab-graph/graph"
	"vocab-graph/quiz"
	"vocab-graph/web/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type fakeGraphStore struct {
	enabled   bool
	count     int64
	err       error
	linked    int
	simulated string
}

func (f *fakeGraphStore) Enabled() bool                             { return f.enabled }
func (f *fakeGraphStore) CountNodes(context.Context) (int64, error) { return f.count, f.err }
func (f *fakeGraphStore) InitSample(context.Context) error          { return f.err }
func (f *fakeGraphStore) InitLearners(context.Context) error        { return f.err }
func (f *fakeGraphStore) SimulateHistory(_ context.Context, id string, _ int, _ *rand.Rand) (int, error) {
	f.simulated = id
	return f.linked, f.err
}

func TestHealthHandler(t *testing.T) {
	store := &fakeGraphStore{enabled: true, count: 42}
	h := NewHealthHandler(store, zap.NewNop())
	r := gin.New()
	r.GET("/", h.Index)
	r.GET("/test-db", h.TestDB)
	r.POST("/init-sample", h.InitSample)

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Vocabulary Graph API is running", w.Body.String())

	w = perform(r, http.MethodGet, "/test-db", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["count"])

	w = perform(r, http.MethodPost, "/init-sample", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sample data created: apple -> fruit", decode(t, w)["message"])

	store.enabled = false
	w = perform(r, http.MethodGet, "/test-db", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DB Driver not initialized", decode(t, w)["error"])
}

type fakeSearcher struct{}

func (fakeSearcher) Search(_ context.Context, word string) (graph.Visualization, string) {
	return graph.Placeholder(word), "placeholder"
}

type fakeWords struct {
	statsErr error
	props    map[string]graph.Properties
	synonyms []string
}

func (f *fakeWords) Stats() (graph.Stats, error) {
	return graph.Stats{NodesCreated: 3, EdgesCreated: 2}, f.statsErr
}

func (f *fakeWords) WordProperties(word string) (graph.Properties, error) {
	p, ok := f.props[word]
	if !ok {
		return graph.Properties{}, apperrors.WrapErrorf(apperrors.ErrNotFound, "word %q", word)
	}
	return p, nil
}

func (f *fakeWords) Synonyms(_ string, limit int) []string {
	if limit < len(f.synonyms) {
		return f.synonyms[:limit]
	}
	return f.synonyms
}

func (f *fakeWords) Antonyms(string, int) []string { return []string{} }

func graphRouter(words *fakeWords) *gin.Engine {
	h := NewGraphHandler(fakeSearcher{}, words, zap.NewNop())
	r := gin.New()
	r.GET("/api/search/:word", h.Search)
	r.GET("/api/graph/stats", h.Stats)
	r.GET("/api/words/:word", h.Word)
	r.GET("/api/words/:word/synonyms", h.Synonyms)
	r.GET("/api/words/:word/antonyms", h.Antonyms)
	return r
}

func TestGraphHandler_Search(t *testing.T) {
	r := graphRouter(&fakeWords{})
	w := perform(r, http.MethodGet, "/api/search/Zebra", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "placeholder", w.Header().Get("X-Graph-Source"))
	assert.JSONEq(t, `{"nodes":[{"id":"Zebra","group":"Word","val":20}],"links":[]}`, w.Body.String())
}

func TestGraphHandler_Stats(t *testing.T) {
	words := &fakeWords{}
	r := graphRouter(words)

	w := perform(r, http.MethodGet, "/api/graph/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["nodesCreated"])

	words.statsErr = apperrors.ErrDatasetUnavailable
	w = perform(r, http.MethodGet, "/api/graph/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Graph data not available", decode(t, w)["error"])
}

func TestGraphHandler_Word(t *testing.T) {
	r := graphRouter(&fakeWords{props: map[string]graph.Properties{"apple": {Text: "apple", POS: "noun"}}})

	w := perform(r, http.MethodGet, "/api/words/Apple", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "apple", body["word"])
	assert.Equal(t, "noun", body["properties"].(map[string]any)["pos"])

	w = perform(r, http.MethodGet, "/api/words/zebra", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGraphHandler_RelatedLimit(t *testing.T) {
	r := graphRouter(&fakeWords{synonyms: []string{"a", "b", "c"}})

	w := perform(r, http.MethodGet, "/api/words/x/synonyms?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"word":"x","synonyms":["a","b"]}`, w.Body.String())

	w = perform(r, http.MethodGet, "/api/words/x/synonyms?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/api/words/x/antonyms", nil)
	assert.JSONEq(t, `{"word":"x","antonyms":[]}`, w.Body.String())
}

type fakeQuiz struct {
	item      types.QuizItem
	err       error
	submitted []types.QuizSubmission
	learner   string
}

func (f *fakeQuiz) ForWord(string, string) (types.QuizItem, error) { return f.item, f.err }
func (f *fakeQuiz) ForLearner(_ context.Context, id string) (types.QuizItem, error) {
	f.learner = id
	return f.item, f.err
}
func (f *fakeQuiz) SubmitForLearner(_ context.Context, id string, sub types.QuizSubmission) error {
	f.learner = id
	f.submitted = append(f.submitted, sub)
	return f.err
}
func (f *fakeQuiz) Submit(_ context.Context, sub types.QuizSubmission) types.Attempt {
	f.submitted = append(f.submitted, sub)
	return types.Attempt{WordID: sub.WordID, IsCorrect: *sub.IsCorrect}
}

func quizRouter(q *fakeQuiz) *gin.Engine {
	h := NewQuizHandler(q, zap.NewNop())
	r := gin.New()
	r.GET("/quiz/:learnerId", h.LearnerQuiz)
	r.POST("/quiz/:learnerId/submit", h.SubmitLearner)
	r.GET("/api/quiz", h.IndexQuiz)
	r.POST("/api/quiz/submit", h.Submit)
	return r
}

func TestQuizHandler_LearnerQuiz(t *testing.T) {
	q := &fakeQuiz{item: types.QuizItem{Type: types.QuizDefinition, Answer: "a fruit", WordID: "apple"}}
	r := quizRouter(q)

	w := perform(r, http.MethodGet, "/quiz/learner_novice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "learner_novice", q.learner)
	assert.Equal(t, "apple", decode(t, w)["wordId"])

	q.err = apperrors.WrapError(apperrors.ErrNotFound, "no quiz items available")
	w = perform(r, http.MethodGet, "/quiz/learner_novice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No quiz items available", decode(t, w)["message"])

	q.err = apperrors.WrapError(apperrors.ErrServiceUnavailable, "neo4j driver not initialized")
	w = perform(r, http.MethodGet, "/quiz/learner_novice", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	q.learner = ""
	w = perform(r, http.MethodGet, "/quiz/bad!id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, q.learner, "malformed id never reaches the provider")
}

func TestQuizHandler_SubmitLearner(t *testing.T) {
	q := &fakeQuiz{}
	r := quizRouter(q)

	w := perform(r, http.MethodPost, "/quiz/learner_inter/submit", map[string]any{"wordId": "apple", "isCorrect": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
	require.Len(t, q.submitted, 1)
	assert.False(t, *q.submitted[0].IsCorrect)

	w = perform(r, http.MethodPost, "/quiz/learner_inter/submit", map[string]any{"wordId": "apple"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_IndexQuizErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unknown type", apperrors.WrapError(apperrors.ErrInvalidInput, "unknown quiz type"), http.StatusBadRequest, "Unknown quiz type"},
		{"too few words", quiz.ErrNotEnoughData, http.StatusInternalServerError, "Not enough vocabulary data"},
		{"no dataset", apperrors.ErrDatasetUnavailable, http.StatusInternalServerError, "Graph data not available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := quizRouter(&fakeQuiz{err: tt.err})
			w := perform(r, http.MethodGet, "/api/quiz?word=apple&type=x", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, decode(t, w)["error"])
		})
	}
}

func TestQuizHandler_Submit(t *testing.T) {
	r := quizRouter(&fakeQuiz{})
	w := perform(r, http.MethodPost, "/api/quiz/submit", map[string]any{"wordId": "apple", "isCorrect": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Result recorded","wordId":"apple","isCorrect":true}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/submit", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeProgress struct {
	progress types.LearnerProgress
	err      error
}

func (f *fakeProgress) LearnerProgress(context.Context, string) (types.LearnerProgress, error) {
	return f.progress, f.err
}

func TestLearnerHandler(t *testing.T) {
	store := &fakeGraphStore{enabled: true, linked: 6}
	progress := &fakeProgress{progress: types.LearnerProgress{LearnerID: "learner_novice", Total: 4, Correct: 3, Accuracy: 0.75}}
	h := NewLearnerHandler(store, progress, zap.NewNop())
	r := gin.New()
	r.POST("/learners/init", h.Init)
	r.POST("/learners/:id/simulate", h.Simulate)
	r.GET("/learners/:id/progress", h.Progress)

	w := perform(r, http.MethodPost, "/learners/init", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPost, "/learners/learner_novice/simulate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Simulated history for learner_novice: 6 words linked.", decode(t, w)["message"])
	assert.Equal(t, "learner_novice", store.simulated)

	w = perform(r, http.MethodGet, "/learners/learner_novice/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.75, decode(t, w)["accuracy"])

	progress.err = apperrors.WrapError(apperrors.ErrServiceUnavailable, "attempt log not configured")
	w = perform(r, http.MethodGet, "/learners/learner_novice/progress", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	store.err = errors.New("boom")
	w = perform(r, http.MethodPost, "/learners/init", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeImporter struct {
	stats types.ImportStats
	err   error
}

func (f *fakeImporter) Import(context.Context) (types.ImportStats, error) { return f.stats, f.err }

type fakeTutor struct {
	result types.Explanation
	err    error
}

func (f *fakeTutor) RecommendAndExplain(context.Context, string) (types.Explanation, error) {
	return f.result, f.err
}

func TestAdminAndAgentHandlers(t *testing.T) {
	imp := &fakeImporter{stats: types.ImportStats{Created: 2, Errors: 1, Skipped: 1}}
	tutor := &fakeTutor{result: types.Explanation{Word: "apple", Message: "AI Agent is offline, but here is a word to study.", Error: "timeout"}}
	admin := NewAdminHandler(imp, zap.NewNop())
	agent := NewAgentHandler(tutor, zap.NewNop())
	r := gin.New()
	r.POST("/import-csv", admin.ImportCSV)
	r.GET("/agent/recommend/:learnerId", agent.Recommend)

	w := perform(r, http.MethodPost, "/import-csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Import completed","stats":{"created":2,"errors":1,"skipped":1}}`, w.Body.String())

	w = perform(r, http.MethodGet, "/agent/recommend/learner_novice", nil)
	require.Equal(t, http.StatusOK, w.Code, "offline tutor still answers 200")
	assert.Equal(t, "apple", decode(t, w)["word"])

	imp.err = apperrors.WrapError(apperrors.ErrServiceUnavailable, "neo4j driver not initialized")
	w = perform(r, http.MethodPost, "/import-csv", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	tutor.err = errors.New("neo4j down")
	w = perform(r, http.MethodGet, "/agent/recommend/learner_novice", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
