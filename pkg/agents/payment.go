package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
PaymentAgent settles payments against a simulated ledger.  It accepts either
a free-form pay command ("pay 5 hbar to 0.0.1234") or a quote produced by
the carbon credit agent, extracts the amount and destination wallet, and
returns a Hedera-style transaction receipt.
*/
type PaymentAgent struct {
	mu           sync.Mutex
	transactions []Transaction

	// now is swappable for tests.
	now func() time.Time
}

/*
Transaction is one settled payment.
*/
type Transaction struct {
	ID        string
	Wallet    string
	AmountUSD float64
	Network   string
	SettledAt time.Time
}

func NewPaymentAgent() *PaymentAgent {
	return &PaymentAgent{now: time.Now}
}

var (
	totalPattern  = regexp.MustCompile(`(?i)total\s+\$([0-9]+(?:\.[0-9]+)?)`)
	walletPattern = regexp.MustCompile(`(?i)(?:pay\s+to|to)\s+(0\.0\.[0-9]+|0x[0-9a-fA-F]{6,40})`)
	payPattern    = regexp.MustCompile(`(?i)\bpay\s+\$?([0-9]+(?:\.[0-9]+)?)\s*(hbar|usdc|usd)?\b`)
)

func (agent *PaymentAgent) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	amount, wallet, ok := parsePayment(userText)

	if !ok {
		return "I settle payments. Tell me an amount and a destination, e.g. \"pay 25 hbar to 0.0.1234\".", nil
	}

	if wallet == "" {
		return "I need a destination wallet to settle that payment.", nil
	}

	tx := agent.settle(amount, wallet)

	return fmt.Sprintf(
		"Payment of $%.2f to %s settled on %s. Transaction %s.",
		tx.AmountUSD, tx.Wallet, tx.Network, tx.ID,
	), nil
}

func (agent *PaymentAgent) settle(amount float64, wallet string) Transaction {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	now := agent.now()

	tx := Transaction{
		ID:        fmt.Sprintf("0.0.900001@%d.%09d", now.Unix(), now.Nanosecond()),
		Wallet:    wallet,
		AmountUSD: amount,
		Network:   networkFor(wallet),
		SettledAt: now,
	}

	agent.transactions = append(agent.transactions, tx)

	log.Info("payment settled", "tx", tx.ID, "wallet", tx.Wallet, "amount", tx.AmountUSD)

	return tx
}

// parsePayment pulls an amount and wallet out of either a quote or a direct
// pay command.  The quote's "Total $X" wins over a bare "pay X".
func parsePayment(text string) (amount float64, wallet string, ok bool) {
	if match := walletPattern.FindStringSubmatch(text); match != nil {
		wallet = match[1]
	}

	if match := totalPattern.FindStringSubmatch(text); match != nil {
		amount, _ = strconv.ParseFloat(match[1], 64)
		return amount, wallet, amount > 0
	}

	if match := payPattern.FindStringSubmatch(text); match != nil {
		amount, _ = strconv.ParseFloat(match[1], 64)
		return amount, wallet, amount > 0
	}

	return 0, wallet, false
}

func networkFor(wallet string) string {
	if len(wallet) > 2 && wallet[:2] == "0x" {
		return "ethereum testnet"
	}

	return "hedera testnet"
}
