package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/bank"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newBankCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bank",
		Short: "Run savings and checking accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				st, err := openStore[types.Account](s, types.CollectionAccounts)
				if err != nil {
					return err
				}
				b, err := bank.New(st, s.log)
				if err != nil {
					return sysErrorf("%w", err)
				}
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				return bankMenu(b).run(p)
			})
		},
	}
}

// askAmount prompts for an account number and an amount.
func askAmount(p *prompter) (string, types.Cents, error) {
	number, err := p.ask("Account number: ")
	if err != nil {
		return "", 0, err
	}
	amount, err := p.askCents("Amount: ")
	if err != nil {
		return "", 0, err
	}
	return number, amount, nil
}

func openAccount(p *prompter) (types.Account, error) {
	kind, err := p.ask("Account type (savings/checking): ")
	if err != nil {
		return types.Account{}, err
	}
	number, err := p.ask("Account number: ")
	if err != nil {
		return types.Account{}, err
	}
	owner, err := p.ask("Owner: ")
	if err != nil {
		return types.Account{}, err
	}
	opening, err := p.askCents("Opening balance: ")
	if err != nil {
		return types.Account{}, err
	}
	switch strings.ToLower(kind) {
	case types.AccountSavings:
		return types.NewSavings(number, owner, opening, types.DefaultInterestRate)
	case types.AccountChecking:
		return types.NewChecking(number, owner, opening, types.DefaultOverdraftLimit)
	}
	return types.Account{}, &types.FieldError{Field: "kind", Reason: "must be savings or checking"}
}

func bankMenu(b *bank.Bank) *menu {
	return &menu{
		title: "Bank",
		save:  b.Save,
		items: []menuItem{
			{"Open account", func(p *prompter) error {
				a, err := openAccount(p)
				if err != nil {
					return err
				}
				if err := b.Open(a); err != nil {
					return err
				}
				p.println("Account opened:", a)
				return nil
			}},
			{"Deposit", func(p *prompter) error {
				number, amount, err := askAmount(p)
				if err != nil {
					return err
				}
				a, err := b.Deposit(number, amount)
				if err != nil {
					return err
				}
				p.println("New balance:", a.Balance)
				return nil
			}},
			{"Withdraw", func(p *prompter) error {
				number, amount, err := askAmount(p)
				if err != nil {
					return err
				}
				a, err := b.Withdraw(number, amount)
				if err != nil {
					return err
				}
				p.println("New balance:", a.Balance)
				return nil
			}},
			{"Transfer", func(p *prompter) error {
				from, err := p.ask("From account: ")
				if err != nil {
					return err
				}
				to, err := p.ask("To account: ")
				if err != nil {
					return err
				}
				amount, err := p.askCents("Amount: ")
				if err != nil {
					return err
				}
				if err := b.Transfer(from, to, amount); err != nil {
					return err
				}
				p.println("Transfer complete.")
				return nil
			}},
			{"Add interest", func(p *prompter) error {
				number, err := p.ask("Account number: ")
				if err != nil {
					return err
				}
				interest, err := b.AddInterest(number)
				if err != nil {
					return err
				}
				p.println("Interest added:", interest)
				return nil
			}},
			{"Statement", func(p *prompter) error {
				number, err := p.ask("Account number: ")
				if err != nil {
					return err
				}
				st, err := b.Statement(number)
				if err != nil {
					return err
				}
				p.println(st)
				return nil
			}},
			{"Search accounts", func(p *prompter) error {
				kw, err := p.ask("Keyword: ")
				if err != nil {
					return err
				}
				hits := b.Search(kw)
				if len(hits) == 0 {
					p.println("No matching accounts.")
				}
				for _, a := range hits {
					p.println(a)
				}
				return nil
			}},
			{"Close account", func(p *prompter) error {
				number, err := p.ask("Account number: ")
				if err != nil {
					return err
				}
				a, err := b.Close(number)
				if err != nil {
					return err
				}
				p.println("Closed account", a.Number, "with balance", a.Balance)
				return nil
			}},
		},
	}
}
