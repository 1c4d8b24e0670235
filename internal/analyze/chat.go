package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/ananyasolanki1/talklift/pkg/provider/llm"
)

const chatSystemPromptTemplate = `You are a concise, direct, and structured AI English coach.
The user spoke the following text: %q

Rules for your responses:
1. Be extremely concise and to the point.
2. Use bullet points or numbered lists if explaining multiple things.
3. Avoid long introductions or conclusions.
4. Focus on helping the user improve their communication.`

// ChatMessage is one turn of a coaching conversation.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Chat continues a coaching conversation about contextText, the transcript
// the session is discussing. messages is the full conversation so far, oldest
// first, ending with the user turn to answer. The reply is free text; no
// structured shape is expected, so there is no malformed-result condition
// here.
func (a *Analyzer) Chat(ctx context.Context, contextText string, messages []ChatMessage) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		return "", fmt.Errorf("analyze: chat context must not be empty")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("analyze: chat messages must not be empty")
	}

	req := llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(chatSystemPromptTemplate, contextText),
		Temperature:  a.temperature,
	}
	for _, m := range messages {
		role := m.Role
		if role != "user" && role != "assistant" {
			return "", fmt.Errorf("analyze: unknown chat role %q", m.Role)
		}
		req.Messages = append(req.Messages, llm.Message{Role: role, Content: m.Content})
	}

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("analyze: chat complete: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("analyze: empty chat reply")
	}
	return resp.Content, nil
}
