package domain

// OwnerID is the participant identifier reserved for the primary user
// ("who owns the ledger") in settlement balances and transfer records.
const OwnerID = "user"

// Payer identifies who actually paid for a transaction: the ledger owner
// or one of the shared-expense members. The zero value is the owner, which
// matches the legacy data where an absent payer id means "I paid".
type Payer struct {
	memberID string
}

// OwnerPayer returns the payer representing the primary user.
func OwnerPayer() Payer {
	return Payer{}
}

// MemberPayer returns the payer for the given member id. Legacy sentinel
// ids meaning "the owner" map to the owner payer.
func MemberPayer(id string) Payer {
	if id == "" || id == "me" || id == OwnerID {
		return Payer{}
	}
	return Payer{memberID: id}
}

// IsOwner reports whether the primary user paid.
func (p Payer) IsOwner() bool {
	return p.memberID == ""
}

// ParticipantID returns the id used for this payer in settlement balances:
// OwnerID for the owner, the member id otherwise.
func (p Payer) ParticipantID() string {
	if p.memberID == "" {
		return OwnerID
	}
	return p.memberID
}
