// Package fsm provides a small finite-state machine used to guard status
// transitions on domain entities. A machine is an immutable edge table; the
// same abstraction serves appointments and invoices.
package fsm

// State is any string-backed status type.
type State interface {
	~string
}

// Machine holds the allowed transitions for one entity type.
type Machine[S State] struct {
	edges map[S]map[S]struct{}
}

// New builds a machine from a state -> reachable-states table. States with no
// outgoing edges (terminal states) may be listed with an empty slice or
// omitted entirely.
func New[S State](table map[S][]S) *Machine[S] {
	edges := make(map[S]map[S]struct{}, len(table))
	for from, tos := range table {
		set := make(map[S]struct{}, len(tos))
		for _, to := range tos {
			set[to] = struct{}{}
		}
		edges[from] = set
	}
	return &Machine[S]{edges: edges}
}

// CanTransition reports whether the edge from -> to exists in the table.
func (m *Machine[S]) CanTransition(from, to S) bool {
	tos, ok := m.edges[from]
	if !ok {
		return false
	}
	_, ok = tos[to]
	return ok
}

// Known reports whether the state appears in the table at all, as either a
// source or a target.
func (m *Machine[S]) Known(s S) bool {
	if _, ok := m.edges[s]; ok {
		return true
	}
	for _, tos := range m.edges {
		if _, ok := tos[s]; ok {
			return true
		}
	}
	return false
}
