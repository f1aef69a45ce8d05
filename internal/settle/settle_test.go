package settle_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/logger"
	"github.com/lmoreira/balanco/internal/money"
	"github.com/lmoreira/balanco/internal/settle"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func expense(id string, amount float64) domain.Transaction {
	return domain.Transaction{ID: id, Type: domain.TypeExpense, Amount: dec(amount)}
}

func balanceFor(t *testing.T, balances []settle.Balance, id string) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.ID == id {
			return b.Amount
		}
	}
	t.Fatalf("no balance for %q", id)
	return decimal.Zero
}

func TestCalculateDebts_SimpleSplit(t *testing.T) {
	// Scenario: owner pays 100, Bob's assigned share is 40.
	tx := expense("t1", 100)
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(40)},
	})
	participants := []domain.Participant{{ID: "bob", Name: "Bob"}}

	transfers := settle.CalculateDebts(context.Background(), []domain.Transaction{tx}, participants)

	require.Len(t, transfers, 1)
	assert.Equal(t, "bob", transfers[0].FromID)
	assert.Equal(t, domain.OwnerID, transfers[0].ToID)
	assert.True(t, transfers[0].Amount.Equal(dec(40)))

	lines := settle.FormatInstructions(transfers, participants)
	require.Len(t, lines, 1)
	assert.Equal(t, "Bob deve pagar R$ 40,00 para Você", lines[0])
}

func TestCalculateDebts_MemberPaidWithRemainder(t *testing.T) {
	// Scenario: Bob pays 100, Carla's explicit share is 60, the
	// unassigned 40 falls to the owner as implicit co-consumer.
	tx := expense("t1", 100)
	tx.Payer = domain.MemberPayer("bob")
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "carla", Amount: dec(60)},
	})
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	balances := settle.NetBalances(context.Background(), []domain.Transaction{tx}, participants)
	assert.True(t, balanceFor(t, balances, "bob").Equal(dec(100)))
	assert.True(t, balanceFor(t, balances, "carla").Equal(dec(-60)))
	assert.True(t, balanceFor(t, balances, domain.OwnerID).Equal(dec(-40)))

	transfers := settle.CalculateDebts(context.Background(), []domain.Transaction{tx}, participants)
	require.Len(t, transfers, 2)
	// Largest debtor first: Carla owes 60, the owner owes 40.
	assert.Equal(t, "carla", transfers[0].FromID)
	assert.Equal(t, "bob", transfers[0].ToID)
	assert.True(t, transfers[0].Amount.Equal(dec(60)))
	assert.Equal(t, domain.OwnerID, transfers[1].FromID)
	assert.Equal(t, "bob", transfers[1].ToID)
	assert.True(t, transfers[1].Amount.Equal(dec(40)))

	lines := settle.FormatInstructions(transfers, participants)
	assert.Equal(t, []string{
		"Carla deve pagar R$ 60,00 para Bob",
		"Você deve pagar R$ 40,00 para Bob",
	}, lines)
}

func TestCalculateDebts_EvenSplitOwnerPaid(t *testing.T) {
	tx := expense("t1", 90)
	tx.Split = domain.EvenSplit()
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	balances := settle.NetBalances(context.Background(), []domain.Transaction{tx}, participants)

	assert.True(t, balanceFor(t, balances, domain.OwnerID).Equal(dec(60)))
	assert.True(t, balanceFor(t, balances, "bob").Equal(dec(-30)))
	assert.True(t, balanceFor(t, balances, "carla").Equal(dec(-30)))
}

func TestCalculateDebts_EvenSplitMemberPaid(t *testing.T) {
	tx := expense("t1", 90)
	tx.Payer = domain.MemberPayer("bob")
	tx.Split = domain.EvenSplit()
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	balances := settle.NetBalances(context.Background(), []domain.Transaction{tx}, participants)

	// Everyone including Bob is debited a 30 share; Bob is credited the
	// full 90, netting him +60.
	assert.True(t, balanceFor(t, balances, domain.OwnerID).Equal(dec(-30)))
	assert.True(t, balanceFor(t, balances, "bob").Equal(dec(60)))
	assert.True(t, balanceFor(t, balances, "carla").Equal(dec(-30)))
}

func TestCalculateDebts_SettledSharesAreSkipped(t *testing.T) {
	tx := expense("t1", 100)
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(40), Settled: true},
		{MemberID: "carla", Amount: dec(30)},
	})
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	balances := settle.NetBalances(context.Background(), []domain.Transaction{tx}, participants)

	// Bob already paid his part: no debit for him, and no credit for the
	// owner from his share.
	assert.True(t, balanceFor(t, balances, "bob").IsZero())
	assert.True(t, balanceFor(t, balances, "carla").Equal(dec(-30)))
	assert.True(t, balanceFor(t, balances, domain.OwnerID).Equal(dec(30)))
}

func TestCalculateDebts_SettledForeignPayerTransactionIsSkipped(t *testing.T) {
	tx := expense("t1", 100)
	tx.Payer = domain.MemberPayer("bob")
	tx.Settled = true
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "carla", Amount: dec(60)},
	})
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	transfers := settle.CalculateDebts(context.Background(), []domain.Transaction{tx}, participants)

	assert.Empty(t, transfers)
}

func TestCalculateDebts_UnsharedExpensesAreIgnored(t *testing.T) {
	txs := []domain.Transaction{
		expense("t1", 100),
		{ID: "t2", Type: domain.TypeIncome, Amount: dec(500)},
		{ID: "t3", Type: domain.TypeTransfer, Amount: dec(50), AccountID: "a", DestinationAccountID: "b"},
	}
	participants := []domain.Participant{{ID: "bob", Name: "Bob"}}

	transfers := settle.CalculateDebts(context.Background(), txs, participants)

	assert.Empty(t, transfers)
	assert.Equal(t, []string{settle.NothingOwedMessage}, settle.FormatInstructions(transfers, participants))
}

func TestCalculateDebts_NoTransactionsYieldsSentinel(t *testing.T) {
	participants := []domain.Participant{{ID: "bob", Name: "Bob"}}

	transfers := settle.CalculateDebts(context.Background(), nil, participants)

	assert.Empty(t, transfers)
	lines := settle.FormatInstructions(transfers, participants)
	require.Len(t, lines, 1)
	assert.Equal(t, settle.NothingOwedMessage, lines[0])
}

func TestCalculateDebts_OverSplitFallsBackToUnshared(t *testing.T) {
	tx := expense("t1", 100)
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(80)},
		{MemberID: "carla", Amount: dec(50)},
	})
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))

	transfers := settle.CalculateDebts(ctx, []domain.Transaction{tx}, participants)

	assert.Empty(t, transfers, "over-split expense must count as unshared")
	assert.Contains(t, buf.String(), "treating as unshared")
}

func TestCalculateDebts_DeletedTransactionsAreExcluded(t *testing.T) {
	tx := expense("t1", 100)
	tx.Deleted = true
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(40)},
	})

	transfers := settle.CalculateDebts(context.Background(), []domain.Transaction{tx},
		[]domain.Participant{{ID: "bob", Name: "Bob"}})

	assert.Empty(t, transfers)
}

func TestCalculateDebts_NettingDrivesBalancesToZero(t *testing.T) {
	// Three expenses forming a cycle of debts; applying the emitted
	// transfers back onto the net balances must zero everyone out.
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
		{ID: "dani", Name: "Dani"},
	}

	t1 := expense("t1", 120)
	t1.Split = domain.EvenSplit()

	t2 := expense("t2", 80)
	t2.Payer = domain.MemberPayer("bob")
	t2.Split = domain.EvenSplit()

	t3 := expense("t3", 55.55)
	t3.Payer = domain.MemberPayer("carla")
	t3.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(20.55)},
		{MemberID: "dani", Amount: dec(15)},
	})

	txs := []domain.Transaction{t1, t2, t3}

	balances := settle.NetBalances(context.Background(), txs, participants)
	transfers := settle.CalculateDebts(context.Background(), txs, participants)

	final := make(map[string]decimal.Decimal)
	for _, b := range balances {
		final[b.ID] = b.Amount
	}
	for _, tr := range transfers {
		final[tr.FromID] = final[tr.FromID].Add(tr.Amount)
		final[tr.ToID] = final[tr.ToID].Sub(tr.Amount)
	}
	for id, amount := range final {
		assert.True(t, money.NearZero(amount), "participant %s left with %s", id, amount)
	}
}

func TestCalculateDebts_Deterministic(t *testing.T) {
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
		{ID: "dani", Name: "Dani"},
	}
	t1 := expense("t1", 90)
	t1.Split = domain.EvenSplit()
	t2 := expense("t2", 60)
	t2.Payer = domain.MemberPayer("dani")
	t2.Split = domain.EvenSplit()
	txs := []domain.Transaction{t1, t2}

	first := settle.CalculateDebts(context.Background(), txs, participants)
	for range 20 {
		again := settle.CalculateDebts(context.Background(), txs, participants)
		require.Equal(t, first, again)
	}
}

func TestNetBalances_TieBreaksFollowInputOrder(t *testing.T) {
	// Bob and Carla owe identical amounts; the stable sort must keep
	// their participant-list order in the emitted transfers.
	tx := expense("t1", 90)
	tx.Split = domain.ExplicitSplit([]domain.Share{
		{MemberID: "bob", Amount: dec(30)},
		{MemberID: "carla", Amount: dec(30)},
	})
	participants := []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carla", Name: "Carla"},
	}

	transfers := settle.CalculateDebts(context.Background(), []domain.Transaction{tx}, participants)

	require.Len(t, transfers, 2)
	assert.Equal(t, "bob", transfers[0].FromID)
	assert.Equal(t, "carla", transfers[1].FromID)
}
