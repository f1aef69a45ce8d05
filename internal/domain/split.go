package domain

import (
	"github.com/shopspring/decimal"
)

// SplitKind tags how an expense is divided between the owner and members.
type SplitKind int

const (
	// SplitNone marks an expense that is not shared with anyone.
	SplitNone SplitKind = iota
	// SplitExplicit carries per-member assigned amounts.
	SplitExplicit
	// SplitEven divides the amount evenly across the owner and every
	// participant known at settlement time (legacy isShared flag with no
	// explicit shares).
	SplitEven
)

// Share is one member's portion of an explicitly split expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
	// Settled marks a share whose debt has already been paid back.
	Settled bool
}

// Split describes how a transaction's amount is divided. The variant is
// decided once, when the transaction is constructed or decoded, so the
// engines never re-infer it from flag combinations.
type Split struct {
	Kind   SplitKind
	Shares []Share // populated only for SplitExplicit
}

// UnsharedSplit returns the split for an expense nobody else takes part in.
func UnsharedSplit() Split {
	return Split{Kind: SplitNone}
}

// ExplicitSplit returns a split with per-member assigned amounts.
// An empty share list degrades to an unshared split.
func ExplicitSplit(shares []Share) Split {
	if len(shares) == 0 {
		return Split{Kind: SplitNone}
	}
	return Split{Kind: SplitExplicit, Shares: shares}
}

// EvenSplit returns the legacy even split across owner and participants.
func EvenSplit() Split {
	return Split{Kind: SplitEven}
}

// AssignedTotal is the sum of all share amounts, settled or not.
func (s Split) AssignedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, share := range s.Shares {
		total = total.Add(share.Amount)
	}
	return total
}

// IsShared reports whether the split involves anyone besides the owner.
func (s Split) IsShared() bool {
	return s.Kind != SplitNone
}
