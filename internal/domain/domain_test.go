package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemberPayer_OwnerSentinels(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantOwner bool
	}{
		{name: "empty means owner", id: "", wantOwner: true},
		{name: "legacy me sentinel", id: "me", wantOwner: true},
		{name: "reserved user id", id: "user", wantOwner: true},
		{name: "real member", id: "bob", wantOwner: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MemberPayer(tt.id)
			assert.Equal(t, tt.wantOwner, p.IsOwner())
			if tt.wantOwner {
				assert.Equal(t, OwnerID, p.ParticipantID())
			} else {
				assert.Equal(t, tt.id, p.ParticipantID())
			}
		})
	}
}

func TestPayer_ZeroValueIsOwner(t *testing.T) {
	var p Payer
	assert.True(t, p.IsOwner())
	assert.Equal(t, OwnerID, p.ParticipantID())
}

func TestExplicitSplit_EmptyDegradesToNone(t *testing.T) {
	s := ExplicitSplit(nil)
	assert.Equal(t, SplitNone, s.Kind)
	assert.False(t, s.IsShared())
}

func TestSplit_AssignedTotal(t *testing.T) {
	s := ExplicitSplit([]Share{
		{MemberID: "bob", Amount: decimal.NewFromFloat(40)},
		{MemberID: "carla", Amount: decimal.NewFromFloat(25.5), Settled: true},
	})
	assert.True(t, s.AssignedTotal().Equal(decimal.NewFromFloat(65.5)))
	assert.True(t, s.IsShared())
}

func TestAccount_OpeningBalance(t *testing.T) {
	initial := decimal.NewFromInt(1000)

	withInitial := Account{InitialBalance: &initial, Balance: decimal.NewFromInt(250)}
	assert.True(t, withInitial.OpeningBalance().Equal(initial))

	cachedOnly := Account{Balance: decimal.NewFromInt(250)}
	assert.True(t, cachedOnly.OpeningBalance().Equal(decimal.NewFromInt(250)))
}

func TestTransaction_HasUsableAmount(t *testing.T) {
	assert.False(t, Transaction{}.HasUsableAmount())
	assert.False(t, Transaction{Amount: decimal.NewFromInt(-5)}.HasUsableAmount())
	assert.True(t, Transaction{Amount: decimal.NewFromFloat(0.01)}.HasUsableAmount())
}
