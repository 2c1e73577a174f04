package agents

import (
	"github.com/verdantlabs/agora/pkg/service"
)

/*
ForName maps an agent card name to its domain handler.  Every handler shares
the same shape: plain text in, plain text out, with task bookkeeping left to
the task manager.
*/
func ForName(name string) (service.Handler, bool) {
	switch name {
	case "GreetingAgent":
		return NewGreetingAgent().Handle, true
	case "TellTimeAgent":
		return NewTellTimeAgent().Handle, true
	case "CarbonCreditAgent":
		return NewCarbonCreditAgent().Handle, true
	case "PaymentAgent":
		return NewPaymentAgent().Handle, true
	case "WalletBalanceAgent":
		return NewWalletBalanceAgent().Handle, true
	default:
		return nil, false
	}
}

// Names lists the agents this binary can serve.
func Names() []string {
	return []string{
		"GreetingAgent",
		"TellTimeAgent",
		"CarbonCreditAgent",
		"PaymentAgent",
		"WalletBalanceAgent",
	}
}
