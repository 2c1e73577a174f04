package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
CreditOffer is a seller's standing offer of carbon credits.  Offers are
seeded at startup and drawn down as purchases are recorded.
*/
type CreditOffer struct {
	Seller         string
	Wallet         string
	Location       string
	CurrentCredits float64
	PricePerCredit float64
}

/*
PurchaseRecord is a completed purchase the agent keeps for auditing.
*/
type PurchaseRecord struct {
	Seller     string
	Credits    float64
	TotalPrice float64
	Receipt    string
	RecordedAt time.Time
}

/*
CarbonCreditAgent negotiates carbon credit purchases against an in-memory
marketplace.  It understands three commands: quoting a price for an amount
of credits, recording a completed purchase, and listing the current offers.
*/
type CarbonCreditAgent struct {
	mu        sync.Mutex
	offers    []CreditOffer
	purchases []PurchaseRecord
}

func NewCarbonCreditAgent() *CarbonCreditAgent {
	return &CarbonCreditAgent{
		offers: []CreditOffer{
			{Seller: "GreenEarth Ltd", Wallet: "0.0.111111", Location: "USA", CurrentCredits: 8000, PricePerCredit: 12.50},
			{Seller: "BlueSky Carbon", Wallet: "0.0.222222", Location: "EU", CurrentCredits: 15000, PricePerCredit: 11.75},
			{Seller: "EcoFuture Corp", Wallet: "0.0.333333", Location: "APAC", CurrentCredits: 4200, PricePerCredit: 13.20},
		},
	}
}

var (
	quotePattern  = regexp.MustCompile(`(?i)\bquote\s+([0-9]+(?:\.[0-9]+)?)\s+credits?\b`)
	recordPattern = regexp.MustCompile(`(?i)\brecord\s+purchase\s+of\s+([0-9]+(?:\.[0-9]+)?)\s+credits?(?:,\s*receipt:\s*(.+))?`)
	amountPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s+(?:carbon\s+)?credits?\b`)
)

func (agent *CarbonCreditAgent) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	if match := quotePattern.FindStringSubmatch(userText); match != nil {
		credits, err := strconv.ParseFloat(match[1], 64)

		if err != nil || credits <= 0 {
			return "I can quote carbon credits, but I need a positive amount. Try: quote 10 credits.", nil
		}

		return agent.quote(credits), nil
	}

	if match := recordPattern.FindStringSubmatch(userText); match != nil {
		credits, err := strconv.ParseFloat(match[1], 64)

		if err != nil || credits <= 0 {
			return "I could not read the credit amount in that purchase record.", nil
		}

		receipt := strings.TrimSpace(match[2])

		return agent.record(credits, receipt), nil
	}

	if match := amountPattern.FindStringSubmatch(userText); match != nil {
		credits, err := strconv.ParseFloat(match[1], 64)

		if err == nil && credits > 0 {
			return agent.quote(credits), nil
		}
	}

	return agent.listOffers(), nil
}

// quote picks the cheapest seller with enough inventory.
func (agent *CarbonCreditAgent) quote(credits float64) string {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	best := agent.bestOffer(credits)

	if best == nil {
		return fmt.Sprintf("No seller currently has %s credits available.", formatAmount(credits))
	}

	total := credits * best.PricePerCredit

	return fmt.Sprintf(
		"Quoted %s credits from %s at $%.2f per credit. Total $%.2f. Pay to %s.",
		formatAmount(credits), best.Seller, best.PricePerCredit, total, best.Wallet,
	)
}

func (agent *CarbonCreditAgent) record(credits float64, receipt string) string {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	best := agent.bestOffer(credits)

	if best == nil {
		return fmt.Sprintf("Cannot record a purchase of %s credits: no seller has that inventory.", formatAmount(credits))
	}

	total := credits * best.PricePerCredit
	best.CurrentCredits -= credits

	agent.purchases = append(agent.purchases, PurchaseRecord{
		Seller:     best.Seller,
		Credits:    credits,
		TotalPrice: total,
		Receipt:    receipt,
		RecordedAt: time.Now(),
	})

	log.Info("recorded carbon credit purchase",
		"seller", best.Seller,
		"credits", credits,
		"total", total,
	)

	return fmt.Sprintf(
		"Recorded purchase of %s credits from %s for $%.2f. %s credits remain in their offer.",
		formatAmount(credits), best.Seller, total, formatAmount(best.CurrentCredits),
	)
}

func (agent *CarbonCreditAgent) listOffers() string {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	var sb strings.Builder

	sb.WriteString("Current carbon credit offers:\n")

	for _, offer := range agent.offers {
		sb.WriteString(fmt.Sprintf(
			"- %s (%s): %s credits at $%.2f per credit\n",
			offer.Seller, offer.Location, formatAmount(offer.CurrentCredits), offer.PricePerCredit,
		))
	}

	sb.WriteString("Ask me to quote an amount, e.g. \"quote 10 credits\".")

	return sb.String()
}

// bestOffer assumes the caller holds the mutex.
func (agent *CarbonCreditAgent) bestOffer(credits float64) *CreditOffer {
	var best *CreditOffer

	for i := range agent.offers {
		offer := &agent.offers[i]

		if offer.CurrentCredits < credits {
			continue
		}

		if best == nil || offer.PricePerCredit < best.PricePerCredit {
			best = offer
		}
	}

	return best
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
