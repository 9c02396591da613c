package types

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account kinds. The kind fixes the withdraw rule and whether interest
// applies.
const (
	AccountSavings  = "savings"
	AccountChecking = "checking"
)

// Default account terms.
const (
	DefaultInterestRate   = 0.02
	DefaultOverdraftLimit = Cents(50000)
)

// Transaction types recorded in account history.
const (
	TxDeposit    = "Deposit"
	TxWithdrawal = "Withdrawal"
	TxInterest   = "Interest"
)

// timeLayout is the timestamp layout used in statements.
const timeLayout = "2006-01-02 15:04:05"

// Transaction is one entry in an account history.
type Transaction struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Amount  Cents     `json:"amount"`
	Balance Cents     `json:"balance"`
	Time    time.Time `json:"time"`
}

// Account is a bank account keyed by number. InterestRate applies only to
// savings accounts and OverdraftLimit only to checking accounts.
type Account struct {
	Number         string        `json:"account_number"`
	Owner          string        `json:"owner"`
	Kind           string        `json:"kind"`
	Balance        Cents         `json:"balance"`
	InterestRate   float64       `json:"interest_rate,omitempty"`
	OverdraftLimit Cents         `json:"overdraft_limit,omitempty"`
	History        []Transaction `json:"history"`
}

// NewSavings opens a savings account earning rate per AddInterest call.
func NewSavings(number, owner string, opening Cents, rate float64) (Account, error) {
	a := Account{
		Number:       strings.TrimSpace(number),
		Owner:        strings.TrimSpace(owner),
		Kind:         AccountSavings,
		Balance:      opening,
		InterestRate: rate,
		History:      []Transaction{},
	}
	if opening < 0 {
		return Account{}, fieldErr("balance", "opening balance must not be negative")
	}
	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// NewChecking opens a checking account that may go overdrawn by up to
// overdraft.
func NewChecking(number, owner string, opening, overdraft Cents) (Account, error) {
	a := Account{
		Number:         strings.TrimSpace(number),
		Owner:          strings.TrimSpace(owner),
		Kind:           AccountChecking,
		Balance:        opening,
		OverdraftLimit: overdraft,
		History:        []Transaction{},
	}
	if opening < 0 {
		return Account{}, fieldErr("balance", "opening balance must not be negative")
	}
	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Validate checks the account fields. A checking balance may be negative
// down to the overdraft limit; a savings balance may not.
func (a Account) Validate() error {
	if a.Number == "" {
		return fieldErr("account_number", "must not be empty")
	}
	if a.Owner == "" {
		return fieldErr("owner", "must not be empty")
	}
	switch a.Kind {
	case AccountSavings:
		if a.Balance < 0 {
			return fieldErr("balance", "must not be negative")
		}
		if a.InterestRate < 0 {
			return fieldErr("interest_rate", "must not be negative")
		}
	case AccountChecking:
		if a.OverdraftLimit < 0 {
			return fieldErr("overdraft_limit", "must not be negative")
		}
		if a.Balance < -a.OverdraftLimit {
			return fieldErr("balance", "exceeds overdraft limit")
		}
	default:
		return fieldErr("kind", fmt.Sprintf("must be %s or %s", AccountSavings, AccountChecking))
	}
	return nil
}

// Keys returns the account number.
func (a Account) Keys() []string {
	return []string{a.Number}
}

// SearchFields returns number and owner.
func (a Account) SearchFields() []string {
	return []string{a.Number, a.Owner}
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount Cents) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.Balance > math.MaxInt64-amount {
		return fieldErr("balance", "deposit would overflow")
	}
	a.Balance += amount
	a.record(TxDeposit, amount)
	return nil
}

// Withdraw removes amount from the balance. Savings accounts cannot go
// below zero; checking accounts can go down to minus the overdraft limit.
// On failure the account is unchanged.
func (a *Account) Withdraw(amount Cents) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Available() {
		return fmt.Errorf("%w: available %s, requested %s", ErrInsufficientFunds, a.Available(), amount)
	}
	a.Balance -= amount
	a.record(TxWithdrawal, amount)
	return nil
}

// Available returns the largest amount Withdraw accepts.
func (a Account) Available() Cents {
	if a.Kind == AccountChecking {
		return a.Balance + a.OverdraftLimit
	}
	return a.Balance
}

// AddInterest credits balance times the interest rate. Only savings
// accounts earn interest.
func (a *Account) AddInterest() (Cents, error) {
	if a.Kind != AccountSavings {
		return 0, ErrUnsupported
	}
	f := math.Round(float64(a.Balance) * a.InterestRate)
	if f > 0 && f >= float64(math.MaxInt64-a.Balance) {
		return 0, fieldErr("balance", "interest would overflow")
	}
	interest := a.Balance.MulRate(a.InterestRate)
	a.Balance += interest
	a.record(TxInterest, interest)
	return interest, nil
}

func (a *Account) record(txType string, amount Cents) {
	a.History = append(slices.Clip(a.History), Transaction{
		ID:      newTransactionID(),
		Type:    txType,
		Amount:  amount,
		Balance: a.Balance,
		Time:    time.Now().UTC().Truncate(time.Second),
	})
}

// Statement renders the account history.
func (a Account) Statement() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Statement for %s (Account: %s)\n", a.Owner, a.Number)
	sb.WriteString(strings.Repeat("-", 50))
	for _, t := range a.History {
		fmt.Fprintf(&sb, "\n%s | %-10s | %8s | Balance: %s", t.Time.Format(timeLayout), t.Type, t.Amount, t.Balance)
	}
	return sb.String()
}

func (a Account) String() string {
	return fmt.Sprintf("%s (%s) %s balance=%s", a.Number, a.Kind, a.Owner, a.Balance)
}

// newTransactionID generates a UUID v7 for transaction IDs.
func newTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
