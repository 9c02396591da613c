// Package library tracks books, members and loans. Books are keyed by ISBN
// and members by member ID; a loan marks the book unavailable and records
// its ISBN on the member.
package library

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/collection"
	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Library holds the book and member collections.
type Library struct {
	books   *collection.Collection[types.Book]
	members *collection.Collection[types.Member]
	log     *zap.Logger
}

// New loads books and members from their stores.
func New(books store.Store[types.Book], members store.Store[types.Member], log *zap.Logger) (*Library, error) {
	log = logging.OrNop(log)
	l := &Library{
		books:   collection.New(books, log.With(zap.String("collection", types.CollectionBooks))),
		members: collection.New(members, log.With(zap.String("collection", types.CollectionMembers))),
		log:     log,
	}
	if err := l.books.Load(); err != nil {
		return nil, fmt.Errorf("library books: %w", err)
	}
	if err := l.members.Load(); err != nil {
		return nil, fmt.Errorf("library members: %w", err)
	}
	return l, nil
}

// AddBook stores b. It fails with types.ErrDuplicate if the ISBN is taken.
func (l *Library) AddBook(b types.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return l.books.Add(b)
}

// RemoveBook deletes the book with isbn. A book on loan cannot be removed.
func (l *Library) RemoveBook(isbn string) (types.Book, error) {
	isbn = strings.TrimSpace(isbn)
	b, ok := l.books.Get(isbn)
	if !ok {
		return types.Book{}, fmt.Errorf("%w: book %s", types.ErrNotFound, isbn)
	}
	if !b.Available {
		return types.Book{}, fmt.Errorf("%w: %s is on loan", types.ErrUnavailable, b.Title)
	}
	return l.books.Remove(isbn)
}

// Book returns the book with isbn.
func (l *Library) Book(isbn string) (types.Book, bool) {
	return l.books.Get(strings.TrimSpace(isbn))
}

// Books returns every book in stored order.
func (l *Library) Books() []types.Book {
	return l.books.All()
}

// SearchBooks matches keyword against title, author and ISBN.
func (l *Library) SearchBooks(keyword string) []types.Book {
	return l.books.Search(strings.TrimSpace(keyword))
}

// AddMember stores m. It fails with types.ErrDuplicate if the ID is taken.
func (l *Library) AddMember(m types.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Borrowed == nil {
		m.Borrowed = []string{}
	}
	return l.members.Add(m)
}

// RemoveMember deletes the member with id. A member holding books cannot be
// removed.
func (l *Library) RemoveMember(id string) (types.Member, error) {
	id = strings.TrimSpace(id)
	m, ok := l.members.Get(id)
	if !ok {
		return types.Member{}, fmt.Errorf("%w: member %s", types.ErrNotFound, id)
	}
	if len(m.Borrowed) > 0 {
		return types.Member{}, fmt.Errorf("%w: %s holds %d", types.ErrHasLoans, m.Name, len(m.Borrowed))
	}
	return l.members.Remove(id)
}

// Member returns the member with id.
func (l *Library) Member(id string) (types.Member, bool) {
	return l.members.Get(strings.TrimSpace(id))
}

// Members returns every member in stored order.
func (l *Library) Members() []types.Member {
	return l.members.All()
}

// Borrowed returns the books held by the member with id.
func (l *Library) Borrowed(id string) ([]types.Book, error) {
	m, ok := l.members.Get(strings.TrimSpace(id))
	if !ok {
		return nil, fmt.Errorf("%w: member %s", types.ErrNotFound, id)
	}
	books := make([]types.Book, 0, len(m.Borrowed))
	for _, isbn := range m.Borrowed {
		if b, ok := l.books.Get(isbn); ok {
			books = append(books, b)
		}
	}
	return books, nil
}

// Borrow lends the book with isbn to the member with memberID. It fails
// with types.ErrUnavailable if the book is already on loan.
func (l *Library) Borrow(memberID, isbn string) error {
	memberID, isbn = strings.TrimSpace(memberID), strings.TrimSpace(isbn)
	if !l.members.Has(memberID) {
		return fmt.Errorf("%w: member %s", types.ErrNotFound, memberID)
	}
	b, ok := l.books.Get(isbn)
	if !ok {
		return fmt.Errorf("%w: book %s", types.ErrNotFound, isbn)
	}
	if !b.Available {
		return fmt.Errorf("%w: %s", types.ErrUnavailable, b.Title)
	}

	if err := l.setAvailable(isbn, false); err != nil {
		return err
	}
	_, err := l.members.Update(memberID, func(m *types.Member) error {
		m.Borrowed = append(slices.Clone(m.Borrowed), isbn)
		return nil
	})
	if err != nil {
		l.restoreAvailable(isbn, true)
		return err
	}
	return nil
}

// Return takes the book with isbn back from the member with memberID. It
// fails with types.ErrNotBorrowed if the member does not hold the book.
func (l *Library) Return(memberID, isbn string) error {
	memberID, isbn = strings.TrimSpace(memberID), strings.TrimSpace(isbn)
	m, ok := l.members.Get(memberID)
	if !ok {
		return fmt.Errorf("%w: member %s", types.ErrNotFound, memberID)
	}
	if !m.Holds(isbn) {
		return fmt.Errorf("%w: %s does not hold %s", types.ErrNotBorrowed, m.Name, isbn)
	}

	_, err := l.members.Update(memberID, func(m *types.Member) error {
		m.Borrowed = slices.DeleteFunc(slices.Clone(m.Borrowed), func(s string) bool { return s == isbn })
		return nil
	})
	if err != nil {
		return err
	}
	if l.books.Has(isbn) {
		if err := l.setAvailable(isbn, true); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) setAvailable(isbn string, available bool) error {
	_, err := l.books.Update(isbn, func(b *types.Book) error {
		b.Available = available
		return nil
	})
	return err
}

// restoreAvailable undoes setAvailable after a failed loan update.
func (l *Library) restoreAvailable(isbn string, available bool) {
	if err := l.setAvailable(isbn, available); err != nil {
		l.log.Error("could not restore book availability", zap.String("isbn", isbn), zap.Error(err))
	}
}

// Save rewrites both stores.
func (l *Library) Save() error {
	if err := l.books.Save(); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	if err := l.members.Save(); err != nil {
		return fmt.Errorf("save members: %w", err)
	}
	return nil
}
