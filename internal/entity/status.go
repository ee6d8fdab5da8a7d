package entity

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew            Status = "new"
	StatusInitialContact Status = "initial_contact"
	StatusProposalSent   Status = "proposal_sent"
	StatusNegotiation    Status = "negotiation"
	StatusHandedOff      Status = "handed_off"
	StatusClosedWon      Status = "closed_won"
	StatusClosedLost     Status = "closed_lost"
	StatusFollowUp       Status = "follow_up"
)

// AllStatuses in pipeline order. follow_up sits outside the forward flow.
var AllStatuses = []Status{
	StatusNew,
	StatusInitialContact,
	StatusProposalSent,
	StatusNegotiation,
	StatusHandedOff,
	StatusClosedWon,
	StatusClosedLost,
	StatusFollowUp,
}

// manualTransitions lists the edges a user may take from the board.
// closed_won and closed_lost have no outgoing edges: once a deal is
// closed it stays closed. follow_up can return to any non-terminal
// status, since a lead may have been parked from any of them.
var manualTransitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusInitialContact: true,
		StatusFollowUp:       true,
	},
	StatusInitialContact: {
		StatusProposalSent: true,
		StatusFollowUp:     true,
	},
	StatusProposalSent: {
		StatusNegotiation: true,
		StatusFollowUp:    true,
	},
	StatusNegotiation: {
		StatusHandedOff: true,
		StatusFollowUp:  true,
	},
	StatusHandedOff: {
		StatusClosedWon:  true,
		StatusClosedLost: true,
		StatusFollowUp:   true,
	},
	StatusFollowUp: {
		StatusNew:            true,
		StatusInitialContact: true,
		StatusProposalSent:   true,
		StatusNegotiation:    true,
		StatusHandedOff:      true,
	},
	StatusClosedWon:  {},
	StatusClosedLost: {},
}

// IsValid reports whether s is a member of the pipeline.
func (s Status) IsValid() bool {
	_, ok := manualTransitions[s]
	return ok
}

// IsTerminal reports whether s is a closed state with no outgoing edges.
func (s Status) IsTerminal() bool {
	return s == StatusClosedWon || s == StatusClosedLost
}

// IsLegalManualTransition reports whether a user-initiated move from one
// status to another is an edge of the pipeline graph.
func IsLegalManualTransition(from, to Status) bool {
	next, ok := manualTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// TerminalStatuses returns the set of statuses that accept no further
// transitions.
func TerminalStatuses() []Status {
	return []Status{StatusClosedWon, StatusClosedLost}
}
