package reconcile

import "sync"

// MutationState is the lifecycle position of one in-flight mutation.
// Exactly one outcome is recorded per request; there is no partial
// application and no rollback, because nothing is applied before the
// service confirms.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationApplied
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationApplied:
		return "applied"
	case MutationFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Mutation tracks one remote mutation from issue to outcome.
type Mutation struct {
	mu    sync.Mutex
	op    string
	state MutationState
	err   error
}

func newMutation(op string) *Mutation {
	return &Mutation{op: op, state: MutationIdle}
}

// Op names the operation this mutation performs.
func (m *Mutation) Op() string {
	return m.op
}

// State returns the mutation's current lifecycle state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the failure outcome, nil unless the state is Failed.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Mutation) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MutationIdle {
		m.state = MutationPending
	}
}

// applied and failed are terminal; the first outcome recorded wins.
func (m *Mutation) applied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MutationPending {
		m.state = MutationApplied
	}
}

func (m *Mutation) failed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MutationPending {
		m.state = MutationFailed
		m.err = err
	}
}
