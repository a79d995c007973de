package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "vocab-graph/errors"

	"go.uber.org/zap"
)

// tutorReply is the JSON object the tutor prompt asks for.
type tutorReply struct {
	Explanation string `json:"explanation"`
	Mnemonic    string `json:"mnemonic"`
	Sentence    string `json:"sentence"`
}

// ResponseHandler turns raw LLM output into a tutorReply.
type ResponseHandler struct {
	logger *zap.Logger
}

// NewResponseHandler creates a new response handler instance.
func NewResponseHandler(logger *zap.Logger) *ResponseHandler {
	return &ResponseHandler{logger: logger}
}

// Parse decodes the reply. Some backends wrap JSON mode output in a Markdown
// fence anyway, so a surrounding ```json block is stripped first.
func (r *ResponseHandler) Parse(raw string) (tutorReply, error) {
	var reply tutorReply
	content := stripFence(raw)
	if r.IsEmpty(content) {
		return reply, apperrors.WrapError(apperrors.ErrLLMCommunication, "empty tutor response")
	}

	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		// Debug log full response to diagnose format issues
		r.logger.Debug("Tutor response was not valid JSON",
			zap.Int("total_length", len(raw)),
			zap.String("full_response", raw))
		return reply, fmt.Errorf("%w: decode tutor response: %v", apperrors.ErrLLMCommunication, err)
	}
	if r.IsEmpty(reply.Explanation) && r.IsEmpty(reply.Sentence) {
		return reply, apperrors.WrapError(apperrors.ErrLLMCommunication, "tutor response had no explanation")
	}
	return reply, nil
}

// IsEmpty checks if the response is empty or only whitespace.
func (r *ResponseHandler) IsEmpty(response string) bool {
	return strings.TrimSpace(response) == ""
}

func stripFence(raw string) string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}
