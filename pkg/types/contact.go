package types

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
)

// Contact is one address book entry. Phone and email are both unique keys.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// NewContact validates raw input and returns a normalized Contact. The name
// is trimmed and title-cased, the email lower-cased.
func NewContact(name, phone, email, address string) (Contact, error) {
	c := Contact{
		Name:    cases.Title(language.Und).String(strings.TrimSpace(name)),
		Phone:   strings.TrimSpace(phone),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Address: strings.TrimSpace(address),
	}
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// Validate checks the contact fields without normalizing them.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fieldErr("name", "must not be empty")
	}
	if !phonePattern.MatchString(c.Phone) {
		return fieldErr("phone", "must be 7 to 15 digits with an optional leading +")
	}
	if !emailPattern.MatchString(c.Email) {
		return fieldErr("email", "must look like user@example.com")
	}
	return nil
}

// Keys returns the unique keys of the contact: phone, then email. The email
// key is lower-cased so stored mixed-case addresses still match lookups.
func (c Contact) Keys() []string {
	return []string{c.Phone, strings.ToLower(c.Email)}
}

// SearchFields returns the fields matched by keyword search.
func (c Contact) SearchFields() []string {
	return []string{c.Name, c.Phone, c.Email, c.Address}
}

func (c Contact) String() string {
	return c.Name + " | " + c.Phone + " | " + c.Email + " | " + c.Address
}
