package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

// WellKnownCatalogPath serves the full list of registered cards.
const WellKnownCatalogPath = "/.well-known/catalog.json"

// CatalogClient talks to a remote catalog server.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register announces an agent card to the catalog.
func (c *CatalogClient) Register(card *a2a.AgentCard) error {
	body, err := json.Marshal(card)

	if err != nil {
		return &DecodingError{What: "agent card", Err: err}
	}

	resp, err := c.httpClient.Post(c.baseURL+"/agent", "application/json", bytes.NewReader(body))

	if err != nil {
		return &ConnectionError{Op: "register", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &RegistrationError{AgentName: card.Name, StatusCode: resp.StatusCode}
	}

	return nil
}

// GetAgents retrieves all agent cards from the catalog.
func (c *CatalogClient) GetAgents() ([]a2a.AgentCard, error) {
	url := c.baseURL + WellKnownCatalogPath

	log.Debug("fetching agents from catalog", "url", url)

	resp, err := c.httpClient.Get(url)

	if err != nil {
		return nil, &ConnectionError{Op: "get agents", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{Op: fmt.Sprintf("get agents (status %d)", resp.StatusCode)}
	}

	var agents []a2a.AgentCard

	if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
		return nil, &DecodingError{What: "catalog response", Err: err}
	}

	log.Debug("retrieved agents from catalog", "count", len(agents))

	return agents, nil
}

// GetAgent retrieves a specific agent card by name.
func (c *CatalogClient) GetAgent(name string) (*a2a.AgentCard, error) {
	url := fmt.Sprintf("%s/agent/%s", c.baseURL, name)

	resp, err := c.httpClient.Get(url)

	if err != nil {
		return nil, &ConnectionError{Op: "get agent", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{AgentName: name}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{Op: fmt.Sprintf("get agent (status %d)", resp.StatusCode)}
	}

	var card a2a.AgentCard

	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, &DecodingError{What: "agent response", Err: err}
	}

	return &card, nil
}
