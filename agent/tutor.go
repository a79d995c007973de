// Package agent holds the vocabulary tutor: it finds a word the learner is
// struggling with and asks the LLM for an explanation, mnemonic and example.
package agent

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	apperrors "vocab-graph/errors"
	"vocab-graph/prompts"
	"vocab-graph/web/format"
	"vocab-graph/web/types"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// Messages returned in place of an explanation.
const (
	MessageNoRecommendation = "No recommendations found"
	MessageOffline          = "AI Agent is offline, but here is a word to study."
)

// ContextSource finds the word a learner should review.
type ContextSource interface {
	RecommendationContext(ctx context.Context, learnerID string) (*types.TutorContext, error)
}

// ChatClient is the LLM call the tutor needs.
type ChatClient interface {
	ChatJSON(ctx context.Context, system, user string) (string, error)
}

var promptTemplate = template.Must(template.New("tutor").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(prompts.Tutor()))

type Tutor struct {
	source   ContextSource
	llm      ChatClient
	cache    *lru.Cache
	response *ResponseHandler
	logger   *zap.Logger
}

// NewTutor creates a tutor caching up to cacheSize explanations.
func NewTutor(source ContextSource, llm ChatClient, cacheSize int, logger *zap.Logger) (*Tutor, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create explanation cache: %w", err)
	}
	logger.Info("Tutor initialized", zap.Int("cache_size", cacheSize))
	return &Tutor{
		source:   source,
		llm:      llm,
		cache:    cache,
		response: NewResponseHandler(logger),
		logger:   logger,
	}, nil
}

// RecommendAndExplain picks a weak word for the learner and explains it.
// Only a failure to read the learner graph is returned as an error; LLM
// failures produce the offline message with the word still filled in.
func (t *Tutor) RecommendAndExplain(ctx context.Context, learnerID string) (types.Explanation, error) {
	tc, err := t.source.RecommendationContext(ctx, learnerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return types.Explanation{Message: MessageNoRecommendation}, nil
		}
		return types.Explanation{}, err
	}

	key := cacheKey(learnerID, tc.Word)
	if cached, ok := t.cache.Get(key); ok {
		t.logger.Debug("Explanation cache hit", zap.String("learner", learnerID), zap.String("word", tc.Word))
		return cached.(types.Explanation), nil
	}

	prompt, err := renderPrompt(tc)
	if err != nil {
		return t.offline(tc.Word, err), nil
	}

	raw, err := t.llm.ChatJSON(ctx, prompts.TutorSystem(), prompt)
	if err != nil {
		t.logger.Error("Tutor LLM call failed", zap.String("word", tc.Word), zap.Error(err))
		return t.offline(tc.Word, err), nil
	}

	reply, err := t.response.Parse(raw)
	if err != nil {
		t.logger.Error("Tutor response unusable", zap.String("word", tc.Word), zap.Error(err))
		return t.offline(tc.Word, err), nil
	}

	explanation := types.Explanation{
		Word:            tc.Word,
		Explanation:     reply.Explanation,
		ExplanationHTML: format.ConvertToHTML(reply.Explanation),
		Mnemonic:        reply.Mnemonic,
		Sentence:        reply.Sentence,
	}
	t.cache.Add(key, explanation)
	return explanation, nil
}

func (t *Tutor) offline(word string, err error) types.Explanation {
	return types.Explanation{
		Word:    word,
		Message: MessageOffline,
		Error:   err.Error(),
	}
}

func renderPrompt(tc *types.TutorContext) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, tc); err != nil {
		return "", fmt.Errorf("render tutor prompt: %w", err)
	}
	return b.String(), nil
}

func cacheKey(learnerID, word string) string {
	return learnerID + "\x00" + strings.ToLower(word)
}
