package orchestrator

import (
	"context"

	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
Classifier decides which discovered agent should handle a user utterance.
It returns the chosen agent name, or "" when no agent fits.  The production
implementations call an LLM (see pkg/provider); tests inject deterministic
stubs.
*/
type Classifier interface {
	Classify(ctx context.Context, text string, agents []a2a.AgentCard) (string, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string, agents []a2a.AgentCard) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string, agents []a2a.AgentCard) (string, error) {
	return f(ctx, text, agents)
}
