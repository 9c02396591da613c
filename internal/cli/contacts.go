package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/contacts"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newContactsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "Manage the address book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				st, err := openStore[types.Contact](s, types.CollectionContacts)
				if err != nil {
					return err
				}
				m, err := contacts.NewManager(st, s.log)
				if err != nil {
					return sysErrorf("%w", err)
				}
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				return contactsMenu(m, s.backupDir).run(p)
			})
		},
	}
}

func contactsMenu(m *contacts.Manager, backupDir string) *menu {
	return &menu{
		title: "Contact Manager",
		save:  m.Save,
		items: []menuItem{
			{"Add contact", func(p *prompter) error {
				name, err := p.ask("Name: ")
				if err != nil {
					return err
				}
				phone, err := p.ask("Phone: ")
				if err != nil {
					return err
				}
				email, err := p.ask("Email: ")
				if err != nil {
					return err
				}
				address, err := p.ask("Address: ")
				if err != nil {
					return err
				}
				c, err := types.NewContact(name, phone, email, address)
				if err != nil {
					return err
				}
				if err := m.Add(c); err != nil {
					return err
				}
				p.println("Contact added.")
				return nil
			}},
			{"View all contacts", func(p *prompter) error {
				all := m.All()
				if len(all) == 0 {
					p.println("No contacts.")
				}
				for i, c := range all {
					p.printf("%d. %s\n", i+1, c)
				}
				return nil
			}},
			{"Search contacts", func(p *prompter) error {
				kw, err := p.ask("Keyword: ")
				if err != nil {
					return err
				}
				hits := m.Search(kw)
				if len(hits) == 0 {
					p.println("No matching contacts.")
				}
				for _, c := range hits {
					p.println(c)
				}
				return nil
			}},
			{"Update contact", func(p *prompter) error {
				key, err := p.ask("Phone or email of contact: ")
				if err != nil {
					return err
				}
				var u contacts.Update
				for _, f := range []struct {
					label string
					dst   **string
				}{
					{"New name (blank to keep): ", &u.Name},
					{"New phone (blank to keep): ", &u.Phone},
					{"New email (blank to keep): ", &u.Email},
					{"New address (blank to keep): ", &u.Address},
				} {
					if *f.dst, err = p.askOptional(f.label); err != nil {
						return err
					}
				}
				c, err := m.Update(key, u)
				if err != nil {
					return err
				}
				p.println("Updated:", c)
				return nil
			}},
			{"Delete contact", func(p *prompter) error {
				key, err := p.ask("Phone or email of contact: ")
				if err != nil {
					return err
				}
				c, err := m.Remove(key)
				if err != nil {
					return err
				}
				p.println("Deleted:", c.Name)
				return nil
			}},
			{"Sort contacts", func(p *prompter) error {
				by, err := p.ask("Sort by (name/phone/email): ")
				if err != nil {
					return err
				}
				if err := m.Sort(by); err != nil {
					return err
				}
				p.println("Contacts sorted by", by+".")
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
				p.printf("Exported %d contacts to %s\n", m.Len(), path)
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
				p.printf("Imported %d contacts\n", n)
				return nil
			}},
			{"Backup contacts", func(p *prompter) error {
				path, err := m.Backup(backupDir, time.Now())
				if err != nil {
					return err
				}
				p.println("Backup written to", path)
				return nil
			}},
		},
	}
}
