// Package snapshot decodes the JSON export of the original application
// into the strict domain types. The legacy shape is loosely typed
// (isShared flags, magic "me" payer ids, optional sharedWith lists);
// everything ambiguous is resolved here, once, so the engines never
// re-infer meaning from flag combinations.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lmoreira/balanco/internal/domain"
)

// Snapshot is one decoded export: everything the engines need.
type Snapshot struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
	Participants []domain.Participant
}

type rawAccount struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Currency       string           `json:"currency"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal  `json:"balance"`
}

type rawShare struct {
	MemberID       string          `json:"memberId"`
	AssignedAmount decimal.Decimal `json:"assignedAmount"`
	IsSettled      bool            `json:"isSettled"`
}

type rawTransaction struct {
	ID                   string           `json:"id"`
	Type                 string           `json:"type"`
	Date                 string           `json:"date"`
	Description          string           `json:"description"`
	Amount               decimal.Decimal  `json:"amount"`
	AccountID            string           `json:"accountId"`
	DestinationAccountID string           `json:"destinationAccountId"`
	DestinationAmount    *decimal.Decimal `json:"destinationAmount"`
	ExchangeRate         *decimal.Decimal `json:"exchangeRate"`
	TripID               string           `json:"tripId"`
	PayerID              string           `json:"payerId"`
	IsShared             bool             `json:"isShared"`
	SharedWith           []rawShare       `json:"sharedWith"`
	IsRefund             bool             `json:"isRefund"`
	IsSettled            bool             `json:"isSettled"`
	SettledAt            string           `json:"settledAt"`
	Deleted              bool             `json:"deleted"`
}

type rawParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawSnapshot struct {
	Accounts     []rawAccount     `json:"accounts"`
	Transactions []rawTransaction `json:"transactions"`
	Participants []rawParticipant `json:"participants"`
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a snapshot from r. Records without an id are assigned
// one, so downstream advisory messages always have something to point at.
func Decode(r io.Reader) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("Decode: invalid snapshot JSON: %w", err)
	}

	snap := &Snapshot{
		Accounts:     make([]domain.Account, 0, len(raw.Accounts)),
		Transactions: make([]domain.Transaction, 0, len(raw.Transactions)),
		Participants: make([]domain.Participant, 0, len(raw.Participants)),
	}

	for _, acc := range raw.Accounts {
		snap.Accounts = append(snap.Accounts, domain.Account{
			ID:             orUUID(acc.ID),
			Name:           acc.Name,
			Kind:           domain.AccountKind(acc.Type),
			Currency:       acc.Currency,
			InitialBalance: acc.InitialBalance,
			Balance:        acc.Balance,
		})
	}

	for i, tx := range raw.Transactions {
		decoded, err := decodeTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("Decode: transaction %d: %w", i, err)
		}
		snap.Transactions = append(snap.Transactions, decoded)
	}

	for _, p := range raw.Participants {
		snap.Participants = append(snap.Participants, domain.Participant{
			ID:   orUUID(p.ID),
			Name: p.Name,
		})
	}

	return snap, nil
}

func decodeTransaction(tx rawTransaction) (domain.Transaction, error) {
	date, err := parseDate(tx.Date)
	if err != nil {
		return domain.Transaction{}, err
	}

	var settledAt *time.Time
	if tx.SettledAt != "" {
		t, err := parseDate(tx.SettledAt)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("settledAt: %w", err)
		}
		settledAt = &t
	}

	return domain.Transaction{
		ID:                   orUUID(tx.ID),
		Type:                 domain.TransactionType(tx.Type),
		Date:                 date,
		Description:          tx.Description,
		Amount:               tx.Amount,
		AccountID:            tx.AccountID,
		DestinationAccountID: tx.DestinationAccountID,
		DestinationAmount:    tx.DestinationAmount,
		ExchangeRate:         tx.ExchangeRate,
		TripID:               tx.TripID,
		Payer:                domain.MemberPayer(tx.PayerID),
		Split:                resolveSplit(tx),
		Refund:               tx.IsRefund,
		Settled:              tx.IsSettled,
		SettledAt:            settledAt,
		Deleted:              tx.Deleted,
	}, nil
}

// resolveSplit collapses the legacy isShared/sharedWith combination into
// the tagged Split variant.
func resolveSplit(tx rawTransaction) domain.Split {
	if len(tx.SharedWith) > 0 {
		shares := make([]domain.Share, 0, len(tx.SharedWith))
		for _, s := range tx.SharedWith {
			shares = append(shares, domain.Share{
				MemberID: s.MemberID,
				Amount:   s.AssignedAmount,
				Settled:  s.IsSettled,
			})
		}
		return domain.ExplicitSplit(shares)
	}
	if tx.IsShared {
		return domain.EvenSplit()
	}
	return domain.UnsharedSplit()
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func orUUID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
