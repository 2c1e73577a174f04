package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verdantlabs/agora/pkg/a2a"
)

func testCards() []a2a.AgentCard {
	return []a2a.AgentCard{
		{
			Name:        "GreetingAgent",
			Description: "Replies to greetings with a friendly hello.",
			Skills: []a2a.AgentSkill{
				{
					Name:        "Greeting",
					Description: "Say hello and welcome users",
					Tags:        []string{"greeting", "hello"},
					Examples:    []string{"hi", "hello there"},
				},
			},
		},
		{
			Name:        "TellTimeAgent",
			Description: "Reports the current time.",
			Skills: []a2a.AgentSkill{
				{
					Name:        "Tell Time",
					Description: "Report the current clock time",
					Tags:        []string{"time", "clock"},
					Examples:    []string{"what time is it"},
				},
			},
		},
	}
}

func TestKeywordClassifierRoutesByTags(t *testing.T) {
	clf := NewKeywordClassifier()

	name, err := clf.Classify(context.Background(), "what time is it right now?", testCards())
	assert.NoError(t, err)
	assert.Equal(t, "TellTimeAgent", name)

	name, err = clf.Classify(context.Background(), "hello there, nice to meet you", testCards())
	assert.NoError(t, err)
	assert.Equal(t, "GreetingAgent", name)
}

func TestKeywordClassifierNoMatch(t *testing.T) {
	clf := NewKeywordClassifier()

	name, err := clf.Classify(context.Background(), "qwertyuiop zxcvbnm", testCards())
	assert.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestKeywordClassifierEmptyInputs(t *testing.T) {
	clf := NewKeywordClassifier()

	name, err := clf.Classify(context.Background(), "", testCards())
	assert.NoError(t, err)
	assert.Equal(t, "", name)

	name, err = clf.Classify(context.Background(), "what time is it", nil)
	assert.NoError(t, err)
	assert.Equal(t, "", name)
}
