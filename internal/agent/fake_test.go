package agent

import (
	"context"
	"crypto/sha1"

	"github.com/kaiwa-dev/kaiwa/provider"
)

// fakeLLM implements provider.Provider with canned responses and call
// counters.
type fakeLLM struct {
	completeResp string
	completeErr  error
	jsonResp     string
	jsonErr      error

	completeCalls int
	jsonCalls     int
	embedCalls    int
	lastMessages  []provider.Message

	completeFn func(msgs []provider.Message) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, messages []provider.Message) (string, error) {
	f.completeCalls++
	f.lastMessages = messages
	if f.completeFn != nil {
		return f.completeFn(messages)
	}
	return f.completeResp, f.completeErr
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, messages []provider.Message) (string, error) {
	f.jsonCalls++
	f.lastMessages = messages
	return f.jsonResp, f.jsonErr
}

func (f *fakeLLM) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	f.embedCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVec(t)
	}
	return out, nil
}

// hashVec derives a deterministic vector from text so identical texts are
// maximally similar under cosine.
func hashVec(s string) []float32 {
	sum := sha1.Sum([]byte(s))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(sum[i]) + 1
	}
	return vec
}
