// Package bank holds savings and checking accounts keyed by account number.
package bank

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/collection"
	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Bank is the set of open accounts.
type Bank struct {
	accounts *collection.Collection[types.Account]
	log      *zap.Logger
}

// New loads the accounts from s.
func New(s store.Store[types.Account], log *zap.Logger) (*Bank, error) {
	log = logging.OrNop(log)
	c := collection.New(s, log.With(zap.String("collection", types.CollectionAccounts)))
	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	return &Bank{accounts: c, log: log}, nil
}

// Open adds a. It fails with types.ErrDuplicate if the number is taken.
func (b *Bank) Open(a types.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return b.accounts.Add(a)
}

// Close removes the account with number and returns its final state.
func (b *Bank) Close(number string) (types.Account, error) {
	return b.accounts.Remove(strings.TrimSpace(number))
}

// Find returns the account with number.
func (b *Bank) Find(number string) (types.Account, bool) {
	return b.accounts.Get(strings.TrimSpace(number))
}

// Search matches keyword against account number and owner, ignoring case.
func (b *Bank) Search(keyword string) []types.Account {
	return b.accounts.Search(strings.TrimSpace(keyword))
}

// Deposit credits amount to the account with number.
func (b *Bank) Deposit(number string, amount types.Cents) (types.Account, error) {
	return b.accounts.Update(strings.TrimSpace(number), func(a *types.Account) error {
		return a.Deposit(amount)
	})
}

// Withdraw debits amount from the account with number. It fails with
// types.ErrInsufficientFunds when the account rules forbid it, leaving the
// balance unchanged.
func (b *Bank) Withdraw(number string, amount types.Cents) (types.Account, error) {
	return b.accounts.Update(strings.TrimSpace(number), func(a *types.Account) error {
		return a.Withdraw(amount)
	})
}

// AddInterest credits interest to a savings account and returns the amount.
// Checking accounts fail with types.ErrUnsupported.
func (b *Bank) AddInterest(number string) (types.Cents, error) {
	var interest types.Cents
	_, err := b.accounts.Update(strings.TrimSpace(number), func(a *types.Account) error {
		var err error
		interest, err = a.AddInterest()
		return err
	})
	if err != nil {
		return 0, err
	}
	return interest, nil
}

// Transfer moves amount from one account to another. If either leg fails
// both accounts are left as they were.
func (b *Bank) Transfer(from, to string, amount types.Cents) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == to {
		return &types.FieldError{Field: "account_number", Reason: "cannot transfer to the same account"}
	}
	src, ok := b.accounts.Get(from)
	if !ok {
		return fmt.Errorf("%w: account %s", types.ErrNotFound, from)
	}
	if !b.accounts.Has(to) {
		return fmt.Errorf("%w: account %s", types.ErrNotFound, to)
	}

	if _, err := b.Withdraw(from, amount); err != nil {
		return fmt.Errorf("transfer from %s: %w", from, err)
	}
	if _, err := b.Deposit(to, amount); err != nil {
		b.restore(src)
		return fmt.Errorf("transfer to %s: %w", to, err)
	}
	return nil
}

// restore puts prev back after a failed transfer leg.
func (b *Bank) restore(prev types.Account) {
	_, err := b.accounts.Update(prev.Number, func(a *types.Account) error {
		*a = prev
		return nil
	})
	if err != nil {
		b.log.Error("could not restore account", zap.String("account", prev.Number), zap.Error(err))
	}
}

// Statement renders the history of the account with number.
func (b *Bank) Statement(number string) (string, error) {
	a, ok := b.Find(number)
	if !ok {
		return "", fmt.Errorf("%w: account %s", types.ErrNotFound, number)
	}
	return a.Statement(), nil
}

// All returns the accounts in stored order.
func (b *Bank) All() []types.Account {
	return b.accounts.All()
}

// Len returns the number of accounts.
func (b *Bank) Len() int {
	return b.accounts.Len()
}

// Save rewrites the store.
func (b *Bank) Save() error {
	return b.accounts.Save()
}
