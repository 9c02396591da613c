package types

import (
	"fmt"
	"slices"
	"strings"
)

// Book is a library title keyed by ISBN.
type Book struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
}

// NewBook validates raw input and returns an available Book.
func NewBook(title, author, isbn string) (Book, error) {
	b := Book{
		ISBN:      strings.TrimSpace(isbn),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Available: true,
	}
	if err := b.Validate(); err != nil {
		return Book{}, err
	}
	return b, nil
}

// ValidISBN reports whether isbn is exactly 13 digits.
func ValidISBN(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate checks the book fields.
func (b Book) Validate() error {
	if b.Title == "" {
		return fieldErr("title", "must not be empty")
	}
	if b.Author == "" {
		return fieldErr("author", "must not be empty")
	}
	if !ValidISBN(b.ISBN) {
		return fieldErr("isbn", "must be 13 digits")
	}
	return nil
}

// Keys returns the ISBN.
func (b Book) Keys() []string {
	return []string{b.ISBN}
}

// SearchFields returns title, author and ISBN.
func (b Book) SearchFields() []string {
	return []string{b.Title, b.Author, b.ISBN}
}

func (b Book) String() string {
	status := "Available"
	if !b.Available {
		status = "Not Available"
	}
	return fmt.Sprintf("[%s] '%s' by %s - %s", b.ISBN, b.Title, b.Author, status)
}

// Member is a library patron keyed by member ID. Borrowed holds ISBNs.
type Member struct {
	MemberID string   `json:"member_id"`
	Name     string   `json:"name"`
	Borrowed []string `json:"borrowed"`
}

// NewMember validates raw input and returns a Member with no loans.
func NewMember(name, memberID string) (Member, error) {
	m := Member{
		MemberID: strings.TrimSpace(memberID),
		Name:     strings.TrimSpace(name),
		Borrowed: []string{},
	}
	if err := m.Validate(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// ValidMemberID reports whether id is "M" followed by one or more digits.
func ValidMemberID(id string) bool {
	if len(id) < 2 || id[0] != 'M' {
		return false
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate checks the member fields.
func (m Member) Validate() error {
	if m.Name == "" {
		return fieldErr("name", "must not be empty")
	}
	if !ValidMemberID(m.MemberID) {
		return fieldErr("member_id", "must be M followed by digits")
	}
	return nil
}

// Keys returns the member ID.
func (m Member) Keys() []string {
	return []string{m.MemberID}
}

// SearchFields returns member ID and name.
func (m Member) SearchFields() []string {
	return []string{m.MemberID, m.Name}
}

// Holds reports whether the member has borrowed isbn.
func (m Member) Holds(isbn string) bool {
	return slices.Contains(m.Borrowed, isbn)
}

func (m Member) String() string {
	return fmt.Sprintf("Member: %s (ID: %s), %d borrowed", m.Name, m.MemberID, len(m.Borrowed))
}
