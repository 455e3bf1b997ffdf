package layout

// state is the position of the line-classification machine within one
// document. Modeling it explicitly keeps new line categories additive
// instead of growing nested conditionals.
type state int

const (
	// stateSeekingHeader scans the preamble (bank branding, metadata) for
	// the transaction table header.
	stateSeekingHeader state = iota
	// stateInBlock is inside the transaction table with no open tuple.
	stateInBlock
	// stateSeekingContinuation is inside the table with an open tuple that
	// following continuation lines may extend.
	stateSeekingContinuation
	// stateDone is after the totals row; remaining lines are ignored.
	stateDone
)

func (s state) String() string {
	switch s {
	case stateSeekingHeader:
		return "seeking-header"
	case stateInBlock:
		return "in-transaction-block"
	case stateSeekingContinuation:
		return "seeking-continuation"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}
