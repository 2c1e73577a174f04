package a2a

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// WellKnownCardPath is where every agent serves its card.  Discovery probes
// this path without authentication.
const WellKnownCardPath = "/.well-known/agent-card.json"

// AgentCapabilities describes the capabilities of an agent.
type AgentCapabilities struct {
	// Streaming indicates if the agent supports streaming responses.
	Streaming bool `json:"streaming,omitempty"`
	// PushNotifications indicates if the agent supports push notification mechanisms.
	PushNotifications bool `json:"pushNotifications,omitempty"`
	// StateTransitionHistory indicates if the agent supports providing state transition history.
	StateTransitionHistory bool `json:"stateTransitionHistory,omitempty"`
}

// AgentSkill defines a specific skill or capability offered by an agent.
type AgentSkill struct {
	// ID is the unique identifier for the skill.
	ID string `json:"id"`
	// Name is the human-readable name of the skill.
	Name string `json:"name"`
	// Description is an optional description of the skill.
	Description string `json:"description,omitempty"`
	// Tags is an optional list of tags associated with the skill for categorization.
	Tags []string `json:"tags,omitempty"`
	// Examples is an optional list of example inputs or use cases for the skill.
	Examples []string `json:"examples,omitempty"`
}

/*
AgentCard conveys the identity and capabilities an agent publishes at its
well-known path.  Cards are built once at startup from configuration and
never mutated; the Name is the routing key the orchestrator delegates by.
*/
type AgentCard struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	URL          string            `json:"url"`
	Version      string            `json:"version"`
	Capabilities AgentCapabilities `json:"capabilities"`
	Skills       []AgentSkill      `json:"skills"`
}

// NewAgentCardFromConfig reads the card for `agent.<key>` from viper.
func NewAgentCardFromConfig(key string) *AgentCard {
	v := viper.GetViper()
	skillKeys := v.GetStringSlice(fmt.Sprintf("agent.%s.skills", key))

	skills := make([]AgentSkill, len(skillKeys))

	for i, skill := range skillKeys {
		skills[i] = NewSkillFromConfig(skill)
	}

	return &AgentCard{
		Name:        v.GetString(fmt.Sprintf("agent.%s.name", key)),
		Description: v.GetString(fmt.Sprintf("agent.%s.description", key)),
		URL:         v.GetString(fmt.Sprintf("agent.%s.url", key)),
		Version:     v.GetString(fmt.Sprintf("agent.%s.version", key)),
		Capabilities: AgentCapabilities{
			Streaming:              v.GetBool(fmt.Sprintf("agent.%s.capabilities.streaming", key)),
			PushNotifications:      v.GetBool(fmt.Sprintf("agent.%s.capabilities.push_notifications", key)),
			StateTransitionHistory: v.GetBool(fmt.Sprintf("agent.%s.capabilities.state_transition_history", key)),
		},
		Skills: skills,
	}
}

func NewSkillFromConfig(skill string) AgentSkill {
	v := viper.GetViper()

	return AgentSkill{
		ID:          v.GetString(fmt.Sprintf("skills.%s.id", skill)),
		Name:        v.GetString(fmt.Sprintf("skills.%s.name", skill)),
		Description: v.GetString(fmt.Sprintf("skills.%s.description", skill)),
		Tags:        v.GetStringSlice(fmt.Sprintf("skills.%s.tags", skill)),
		Examples:    v.GetStringSlice(fmt.Sprintf("skills.%s.examples", skill)),
	}
}

// Summary renders the card as a compact plain-text block for use as routing
// context: name, description and skill names.
func (card *AgentCard) Summary() string {
	var sb strings.Builder

	sb.WriteString(card.Name)

	if card.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(card.Description)
	}

	for _, skill := range card.Skills {
		sb.WriteString("\n  - ")
		sb.WriteString(skill.Name)
		if skill.Description != "" {
			sb.WriteString(" (")
			sb.WriteString(skill.Description)
			sb.WriteString(")")
		}
	}

	return sb.String()
}

func (card *AgentCard) String() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	indent := "   "
	bullet := "│ "

	sb.WriteString(headerStyle.Render("Agent Card") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Name: ") + valueStyle.Render(card.Name) + "\n")
	if card.Description != "" {
		sb.WriteString(bullet + labelStyle.Render("Description: ") + valueStyle.Render(card.Description) + "\n")
	}
	sb.WriteString(bullet + labelStyle.Render("URL: ") + valueStyle.Render(card.URL) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Version: ") + valueStyle.Render(card.Version) + "\n")

	sb.WriteString("\n" + sectionStyle.Render("Capabilities") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Streaming: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.Streaming)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Push Notifications: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.PushNotifications)) + "\n")

	if len(card.Skills) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Skills") + "\n")
		for i, skill := range card.Skills {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Skill %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("ID: ") + valueStyle.Render(skill.ID) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(skill.Name) + "\n")
			if skill.Description != "" {
				sb.WriteString(bullet + indent + labelStyle.Render("Description: ") + valueStyle.Render(skill.Description) + "\n")
			}
			if len(skill.Tags) > 0 {
				sb.WriteString(bullet + indent + labelStyle.Render("Tags: ") + valueStyle.Render(strings.Join(skill.Tags, ", ")) + "\n")
			}
		}
	}

	return sb.String()
}
