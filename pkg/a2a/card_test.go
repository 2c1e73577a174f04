package a2a

import (
	"encoding/json"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentCardWireFormat(t *testing.T) {
	card := AgentCard{
		Name:        "GreetingAgent",
		Description: "Replies to greetings.",
		URL:         "http://localhost:3001",
		Version:     "1.0.0",
		Capabilities: AgentCapabilities{
			StateTransitionHistory: true,
		},
		Skills: []AgentSkill{
			{ID: "greeting", Name: "Greeting", Tags: []string{"hello"}},
		},
	}

	b, err := json.Marshal(card)
	require.NoError(t, err)

	var decoded AgentCard
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, card.Name, decoded.Name)
	assert.Equal(t, card.URL, decoded.URL)
	assert.True(t, decoded.Capabilities.StateTransitionHistory)
	require.Len(t, decoded.Skills, 1)
	assert.Equal(t, "greeting", decoded.Skills[0].ID)
}

func TestNewAgentCardFromConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("agent.greeting.name", "GreetingAgent")
	viper.Set("agent.greeting.description", "Replies to greetings.")
	viper.Set("agent.greeting.url", "http://localhost:3001")
	viper.Set("agent.greeting.version", "1.0.0")
	viper.Set("agent.greeting.skills", []string{"greeting"})
	viper.Set("skills.greeting.id", "greeting")
	viper.Set("skills.greeting.name", "Greeting")
	viper.Set("skills.greeting.tags", []string{"hello", "greeting"})

	card := NewAgentCardFromConfig("greeting")

	assert.Equal(t, "GreetingAgent", card.Name)
	assert.Equal(t, "http://localhost:3001", card.URL)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "Greeting", card.Skills[0].Name)
	assert.Equal(t, []string{"hello", "greeting"}, card.Skills[0].Tags)
}

func TestCardSummary(t *testing.T) {
	card := AgentCard{
		Name:        "TellTimeAgent",
		Description: "Reports the current time.",
		Skills: []AgentSkill{
			{Name: "Tell Time", Description: "Report the current clock time"},
		},
	}

	summary := card.Summary()

	assert.Contains(t, summary, "TellTimeAgent")
	assert.Contains(t, summary, "Reports the current time.")
	assert.Contains(t, summary, "Tell Time")
}
