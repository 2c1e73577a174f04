package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/verdantlabs/agora/pkg/a2a"
)

// timeLayout is the wire format chat clients and tests expect.
const timeLayout = "2006-01-02 15:04:05"

/*
TellTimeAgent reports the current time in a fixed, parseable sentence.
*/
type TellTimeAgent struct {
	// now is swappable for tests.
	now func() time.Time
}

func NewTellTimeAgent() *TellTimeAgent {
	return &TellTimeAgent{now: time.Now}
}

func (agent *TellTimeAgent) Handle(ctx context.Context, userText string, history []a2a.Message) (string, error) {
	return fmt.Sprintf("The current time is: %s", agent.now().Format(timeLayout)), nil
}
