package submit

import "github.com/sirupsen/logrus"

type state string

const (
	stateIdle              state = "idle"
	stateCheckingStock     state = "checking_stock"
	stateAwaitingDecision  state = "awaiting_decision"
	stateCreatingOrder     state = "creating_order"
	stateCreatingTransfers state = "creating_transfers"
	stateSucceeded         state = "succeeded"
	stateFailed            state = "failed"
)

var validNext = map[state]map[state]bool{
	stateIdle:              {stateCheckingStock: true, stateCreatingOrder: true},
	stateCheckingStock:     {stateCreatingOrder: true, stateAwaitingDecision: true, stateFailed: true},
	stateAwaitingDecision:  {stateCreatingOrder: true},
	stateCreatingOrder:     {stateCreatingTransfers: true, stateSucceeded: true, stateFailed: true},
	stateCreatingTransfers: {stateSucceeded: true, stateFailed: true},
	stateSucceeded:         {},
	stateFailed:            {},
}

// attempt tracks one submission through the state machine, mostly so the
// transitions show up in the logs.
type attempt struct {
	state state
	log   *logrus.Entry
}

func newAttempt(log *logrus.Entry) *attempt {
	return &attempt{state: stateIdle, log: log}
}

func (a *attempt) to(s state) {
	if !validNext[a.state][s] {
		a.log.WithFields(logrus.Fields{"from": a.state, "to": s}).Warn("illegal submission state transition")
	} else {
		a.log.WithFields(logrus.Fields{"from": a.state, "to": s}).Debug("submission state")
	}
	a.state = s
}
