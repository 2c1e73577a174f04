package agents

import (
	"context"
	"fmt"
	"regexp"

	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
WalletBalanceAgent reports balances for a wallet across the networks the
marketplace settles on.  Balances come from a simulated ledger keyed by
address format: Hedera account ids (0.0.N) and EVM hex addresses.
*/
type WalletBalanceAgent struct {
	balances map[string][]string
}

func NewWalletBalanceAgent() *WalletBalanceAgent {
	return &WalletBalanceAgent{
		balances: map[string][]string{
			"0.0.111111": {"hedera: 4200.50 HBAR", "ethereum: 1.25 ETH", "polygon: 310.00 MATIC"},
			"0.0.222222": {"hedera: 18250.00 HBAR", "ethereum: 0.40 ETH", "polygon: 95.75 MATIC"},
			"0.0.333333": {"hedera: 770.10 HBAR", "ethereum: 2.05 ETH", "polygon: 12.30 MATIC"},
		},
	}
}

var addressPattern = regexp.MustCompile(`(0\.0\.[0-9]+|0x[0-9a-fA-F]{6,40})`)

func (agent *WalletBalanceAgent) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	match := addressPattern.FindStringSubmatch(userText)

	if match == nil {
		return "I check wallet balances. Give me a Hedera account id (0.0.1234) or an EVM address (0x...).", nil
	}

	address := match[1]
	lines, ok := agent.balances[address]

	if !ok {
		// Unknown wallets still get a deterministic answer so the flow
		// stays testable without live network calls.
		return fmt.Sprintf(
			"Balances for %s:\n- hedera: 100.00 HBAR\n- ethereum: 0.00 ETH\n- polygon: 0.00 MATIC",
			address,
		), nil
	}

	reply := fmt.Sprintf("Balances for %s:", address)

	for _, line := range lines {
		reply += "\n- " + line
	}

	return reply, nil
}
