package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/library"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newLibraryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "Lend books to members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				books, err := openStore[types.Book](s, types.CollectionBooks)
				if err != nil {
					return err
				}
				members, err := openStore[types.Member](s, types.CollectionMembers)
				if err != nil {
					return err
				}
				l, err := library.New(books, members, s.log)
				if err != nil {
					return sysErrorf("%w", err)
				}
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				return libraryMenu(l).run(p)
			})
		},
	}
}

// askLoan prompts for the member and book of a loan.
func askLoan(p *prompter) (memberID, isbn string, err error) {
	if memberID, err = p.ask("Member ID: "); err != nil {
		return "", "", err
	}
	if isbn, err = p.ask("ISBN: "); err != nil {
		return "", "", err
	}
	return memberID, isbn, nil
}

func libraryMenu(l *library.Library) *menu {
	return &menu{
		title: "Library",
		save:  l.Save,
		items: []menuItem{
			{"Add book", func(p *prompter) error {
				title, err := p.ask("Title: ")
				if err != nil {
					return err
				}
				author, err := p.ask("Author: ")
				if err != nil {
					return err
				}
				isbn, err := p.ask("ISBN (13 digits): ")
				if err != nil {
					return err
				}
				b, err := types.NewBook(title, author, isbn)
				if err != nil {
					return err
				}
				if err := l.AddBook(b); err != nil {
					return err
				}
				p.println("Book added.")
				return nil
			}},
			{"Remove book", func(p *prompter) error {
				isbn, err := p.ask("ISBN: ")
				if err != nil {
					return err
				}
				b, err := l.RemoveBook(isbn)
				if err != nil {
					return err
				}
				p.println("Removed:", b.Title)
				return nil
			}},
			{"Add member", func(p *prompter) error {
				name, err := p.ask("Name: ")
				if err != nil {
					return err
				}
				id, err := p.ask("Member ID (e.g. M001): ")
				if err != nil {
					return err
				}
				m, err := types.NewMember(name, id)
				if err != nil {
					return err
				}
				if err := l.AddMember(m); err != nil {
					return err
				}
				p.println("Member added.")
				return nil
			}},
			{"Remove member", func(p *prompter) error {
				id, err := p.ask("Member ID: ")
				if err != nil {
					return err
				}
				m, err := l.RemoveMember(id)
				if err != nil {
					return err
				}
				p.println("Removed:", m.Name)
				return nil
			}},
			{"Borrow book", func(p *prompter) error {
				memberID, isbn, err := askLoan(p)
				if err != nil {
					return err
				}
				if err := l.Borrow(memberID, isbn); err != nil {
					return err
				}
				p.println("Book borrowed.")
				return nil
			}},
			{"Return book", func(p *prompter) error {
				memberID, isbn, err := askLoan(p)
				if err != nil {
					return err
				}
				if err := l.Return(memberID, isbn); err != nil {
					return err
				}
				p.println("Book returned.")
				return nil
			}},
			{"Search books", func(p *prompter) error {
				kw, err := p.ask("Keyword: ")
				if err != nil {
					return err
				}
				hits := l.SearchBooks(kw)
				if len(hits) == 0 {
					p.println("No matching books.")
				}
				for _, b := range hits {
					p.println(b)
				}
				return nil
			}},
			{"List books", func(p *prompter) error {
				books := l.Books()
				if len(books) == 0 {
					p.println("No books.")
				}
				for _, b := range books {
					p.println(b)
				}
				return nil
			}},
			{"Member's borrowed books", func(p *prompter) error {
				id, err := p.ask("Member ID: ")
				if err != nil {
					return err
				}
				books, err := l.Borrowed(id)
				if err != nil {
					return err
				}
				if len(books) == 0 {
					p.println("No borrowed books.")
				}
				for _, b := range books {
					p.println(b)
				}
				return nil
			}},
		},
	}
}
