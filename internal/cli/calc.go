package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/calc"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// newCalcCmd runs the calculator. History lives for one run and is not
// stored.
func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Calculator with history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return calcMenu(calc.New()).run(p)
		},
	}
}

func calcMenu(c *calc.Calculator) *menu {
	return &menu{
		title: "Calculator",
		items: []menuItem{
			{"Calculate", func(p *prompter) error {
				a, err := p.askFloat("First number: ")
				if err != nil {
					return err
				}
				op, err := p.ask("Operator (" + strings.Join(calc.Operators, ", ") + "): ")
				if err != nil {
					return err
				}
				if !calc.ValidOperator(op) {
					return types.ErrInvalidOperator
				}
				b, err := p.askFloat("Second number: ")
				if err != nil {
					return err
				}
				r, err := c.Calculate(a, b, op)
				if err != nil {
					return err
				}
				p.printf("Result: %g\n", r)
				return nil
			}},
			{"Show history", func(p *prompter) error {
				h := c.History()
				if len(h) == 0 {
					p.println("No history yet.")
				}
				for i, line := range h {
					p.printf("%d. %s\n", i+1, line)
				}
				return nil
			}},
			{"Clear history", func(p *prompter) error {
				c.Clear()
				p.println("History cleared.")
				return nil
			}},
		},
	}
}
