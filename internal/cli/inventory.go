package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/inventory"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newInventoryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Track stock levels and value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				st, err := openStore[types.Item](s, types.CollectionInventory)
				if err != nil {
					return err
				}
				m, err := inventory.NewManager(st, s.settings.LowStockThreshold, s.log)
				if err != nil {
					return sysErrorf("%w", err)
				}
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				return inventoryMenu(m).run(p)
			})
		},
	}
}

func inventoryMenu(m *inventory.Manager) *menu {
	askID := func(p *prompter) (string, error) { return p.ask("Item ID: ") }
	return &menu{
		title: "Inventory Manager",
		save:  m.Save,
		items: []menuItem{
			{"Add item", func(p *prompter) error {
				id, err := askID(p)
				if err != nil {
					return err
				}
				name, err := p.ask("Name: ")
				if err != nil {
					return err
				}
				category, err := p.ask("Category: ")
				if err != nil {
					return err
				}
				qty, err := p.askInt("Quantity: ")
				if err != nil {
					return err
				}
				price, err := p.askFloat("Price: ")
				if err != nil {
					return err
				}
				it, err := types.NewItem(id, name, category, qty, price)
				if err != nil {
					return err
				}
				if err := m.Add(it); err != nil {
					return err
				}
				p.println("Item added.")
				return nil
			}},
			{"Remove item", func(p *prompter) error {
				id, err := askID(p)
				if err != nil {
					return err
				}
				it, err := m.Remove(id)
				if err != nil {
					return err
				}
				p.println("Removed:", it.Name)
				return nil
			}},
			{"Update quantity", func(p *prompter) error {
				id, err := askID(p)
				if err != nil {
					return err
				}
				qty, err := p.askInt("New quantity: ")
				if err != nil {
					return err
				}
				it, err := m.UpdateQuantity(id, qty)
				if err != nil {
					return err
				}
				p.println("Updated:", it)
				return nil
			}},
			{"Update price", func(p *prompter) error {
				id, err := askID(p)
				if err != nil {
					return err
				}
				price, err := p.askFloat("New price: ")
				if err != nil {
					return err
				}
				it, err := m.UpdatePrice(id, price)
				if err != nil {
					return err
				}
				p.println("Updated:", it)
				return nil
			}},
			{"Search items", func(p *prompter) error {
				kw, err := p.ask("Keyword: ")
				if err != nil {
					return err
				}
				hits := m.Search(kw)
				if len(hits) == 0 {
					p.println("No matching items.")
				}
				for _, it := range hits {
					p.println(it)
				}
				return nil
			}},
			{"Inventory report", func(p *prompter) error {
				report := m.Report()
				if len(report) == 0 {
					p.println("Inventory is empty.")
				}
				for _, line := range report {
					flag := ""
					if line.LowStock {
						flag = "  LOW STOCK"
					}
					p.printf("%s%s\n", line.Item, flag)
				}
				p.printf("Total value: %.2f\n", m.TotalValue())
				return nil
			}},
			{"Export to CSV", func(p *prompter) error {
				path, err := p.ask("CSV file: ")
				if err != nil {
					return err
				}
				if err := m.ExportCSV(path); err != nil {
					return err
				}
				p.printf("Exported %d items to %s\n", m.Len(), path)
				return nil
			}},
			{"Import from CSV", func(p *prompter) error {
				path, err := p.ask("CSV file: ")
				if err != nil {
					return err
				}
				n, skipped, err := m.ImportCSV(path)
				if err != nil {
					return err
				}
				for _, e := range skipped {
					p.println("Skipped:", e)
				}
				p.printf("Imported %d items\n", n)
				return nil
			}},
		},
	}
}
