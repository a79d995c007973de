package agent

import (
	"context"
	"errors"
	"testing"

	apperrors "vocab-graph/errors"
	"vocab-graph/web/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	tc  *types.TutorContext
	err error
}

func (f *fakeSource) RecommendationContext(context.Context, string) (*types.TutorContext, error) {
	return f.tc, f.err
}

type fakeLLM struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) ChatJSON(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

func newTestTutor(t *testing.T, source ContextSource, llm ChatClient) *Tutor {
	t.Helper()
	tutor, err := NewTutor(source, llm, 8, zap.NewNop())
	require.NoError(t, err)
	return tutor
}

func appleContext() *types.TutorContext {
	return &types.TutorContext{Word: "apple", Definition: "a round fruit", Related: []string{"fruit", "pear"}}
}

func TestRecommendAndExplain(t *testing.T) {
	llm := &fakeLLM{reply: `{"explanation":"An **apple** is a fruit.","mnemonic":"A for apple","sentence":"I juggle apples."}`}
	tutor := newTestTutor(t, &fakeSource{tc: appleContext()}, llm)

	got, err := tutor.RecommendAndExplain(context.Background(), "learner_novice")
	require.NoError(t, err)

	assert.Equal(t, "apple", got.Word)
	assert.Equal(t, "An **apple** is a fruit.", got.Explanation)
	assert.Contains(t, got.ExplanationHTML, "<strong>apple</strong>")
	assert.Equal(t, "A for apple", got.Mnemonic)
	assert.Equal(t, "I juggle apples.", got.Sentence)
	assert.Empty(t, got.Message)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], `"apple"`)
	assert.Contains(t, llm.prompts[0], "a round fruit")
	assert.Contains(t, llm.prompts[0], "fruit, pear")
}

func TestRecommendAndExplain_CachesPerLearnerAndWord(t *testing.T) {
	llm := &fakeLLM{reply: `{"explanation":"x","mnemonic":"y","sentence":"z"}`}
	tutor := newTestTutor(t, &fakeSource{tc: appleContext()}, llm)
	ctx := context.Background()

	first, err := tutor.RecommendAndExplain(ctx, "learner_novice")
	require.NoError(t, err)
	second, err := tutor.RecommendAndExplain(ctx, "learner_novice")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.calls)

	_, err = tutor.RecommendAndExplain(ctx, "learner_inter")
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls)
}

func TestRecommendAndExplain_NoRecommendation(t *testing.T) {
	source := &fakeSource{err: apperrors.WrapError(apperrors.ErrNotFound, "no recommendations found")}
	llm := &fakeLLM{}
	tutor := newTestTutor(t, source, llm)

	got, err := tutor.RecommendAndExplain(context.Background(), "learner_novice")
	require.NoError(t, err)
	assert.Equal(t, types.Explanation{Message: MessageNoRecommendation}, got)
	assert.Zero(t, llm.calls)
}

func TestRecommendAndExplain_StoreFailure(t *testing.T) {
	source := &fakeSource{err: apperrors.WrapError(apperrors.ErrServiceUnavailable, "neo4j driver not initialized")}
	tutor := newTestTutor(t, source, &fakeLLM{})

	_, err := tutor.RecommendAndExplain(context.Background(), "learner_novice")
	assert.True(t, apperrors.IsServiceUnavailable(err))
}

func TestRecommendAndExplain_OfflineFallback(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{"llm error", &fakeLLM{err: errors.New("llm communication failed: timeout")}},
		{"invalid json", &fakeLLM{reply: "not json"}},
		{"empty object", &fakeLLM{reply: "{}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tutor := newTestTutor(t, &fakeSource{tc: appleContext()}, tt.llm)

			got, err := tutor.RecommendAndExplain(context.Background(), "learner_novice")
			require.NoError(t, err)
			assert.Equal(t, "apple", got.Word)
			assert.Equal(t, MessageOffline, got.Message)
			assert.NotEmpty(t, got.Error)
			assert.Empty(t, got.Explanation)
		})
	}
}

func TestResponseHandler_StripsFence(t *testing.T) {
	r := NewResponseHandler(zap.NewNop())
	reply, err := r.Parse("```json\n{\"explanation\":\"e\",\"mnemonic\":\"m\",\"sentence\":\"s\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, tutorReply{Explanation: "e", Mnemonic: "m", Sentence: "s"}, reply)

	_, err = r.Parse("   ")
	assert.ErrorIs(t, err, apperrors.ErrLLMCommunication)
}

func TestRenderPrompt_NoRelated(t *testing.T) {
	prompt, err := renderPrompt(&types.TutorContext{Word: "apple", Definition: "a fruit"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "not linked this word")
	assert.NotContains(t, prompt, "Related words")
}
