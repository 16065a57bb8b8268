package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bloxcoach/bloxcoach/pkg/provider/llm"
)

// systemPrompt is the coach persona sent as the system instruction on every
// generative turn.
const systemPrompt = "You are a Blox Fruits PvP coach. Answer like a seasoned sparring partner: " +
	"concrete move routes, cooldown awareness, spacing advice. Keep it short, use the game's " +
	"own move names (Z/X/C/V/F keys), and never invent fruits, races, or mechanics that are " +
	"not in the game."

// continueDirective is appended to the conversation when a completion was
// truncated by the backend's length limit.
const continueDirective = "Continue."

// generate asks the backend for a free-form answer, grounding it on kbContext
// when available. Truncated completions are continued for at most
// maxContinuations extra rounds and concatenated. The whole exchange shares
// one hard deadline.
func (e *Engine) generate(ctx context.Context, question, kbContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()

	started := time.Now()

	sys := systemPrompt
	if kbContext != "" {
		sys += "\n\nRelevant notes from the coach's knowledge base:\n" + kbContext
	}

	messages := []llm.Message{{Role: "user", Content: question}}

	var out strings.Builder
	for round := 0; ; round++ {
		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			SystemPrompt: sys,
			Messages:     messages,
			Temperature:  e.temperature,
			MaxTokens:    e.maxTokens,
		})
		if err != nil {
			outcome := "error"
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				outcome = "timeout"
			}
			e.metrics.RecordGeneration(outcome, time.Since(started))
			return "", fmt.Errorf("engine: generate: %w", err)
		}
		if resp == nil {
			e.metrics.RecordGeneration("error", time.Since(started))
			return "", errors.New("engine: generate: backend returned no response")
		}

		out.WriteString(resp.Content)

		if resp.FinishReason != "length" || round >= e.maxContinuations {
			break
		}
		messages = append(messages,
			llm.Message{Role: "assistant", Content: resp.Content},
			llm.Message{Role: "user", Content: continueDirective},
		)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		e.metrics.RecordGeneration("error", time.Since(started))
		return "", errors.New("engine: generate: empty completion")
	}
	e.metrics.RecordGeneration("ok", time.Since(started))
	return text, nil
}
