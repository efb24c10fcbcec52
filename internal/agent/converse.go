package agent

import (
	"context"

	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/session"
)

const converseSystemPrompt = "あなたは誠実で優秀なAIアシスタントです。ユーザーとの会話履歴を考慮しながら、丁寧に日本語で回答してください。"

// Responder handles plain conversation, replaying the session history so the
// model can stay consistent across turns.
type Responder struct {
	llm provider.Provider
}

func NewResponder(llm provider.Provider) *Responder {
	return &Responder{llm: llm}
}

func (r *Responder) Respond(ctx context.Context, query string, history []session.Message) (string, error) {
	messages := make([]provider.Message, 0, len(history)+2)
	messages = append(messages, provider.Message{Role: "system", Content: converseSystemPrompt})
	for _, m := range history {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, provider.Message{Role: "user", Content: query})
	return r.llm.Complete(ctx, messages)
}
