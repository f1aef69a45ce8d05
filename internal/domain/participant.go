package domain

// Participant is someone expenses can be shared with, excluding the
// primary user (who is implicitly present under OwnerID).
type Participant struct {
	ID   string
	Name string
}
