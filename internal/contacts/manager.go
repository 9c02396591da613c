// Package contacts manages the address book. Phone and email are both
// unique: adding a contact whose phone or email is already on file fails,
// and either one finds the contact.
package contacts

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/collection"
	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// BackupPrefix names backup files: backup_contacts_<timestamp>.json.
const BackupPrefix = "backup_contacts"

// Sort fields accepted by Manager.Sort.
const (
	SortByName  = "name"
	SortByPhone = "phone"
	SortByEmail = "email"
)

// Update carries the fields to change; nil fields keep their value.
type Update struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// Manager is the contact list.
type Manager struct {
	contacts *collection.Collection[types.Contact]
	log      *zap.Logger
}

// NewManager loads the contacts from s.
func NewManager(s store.Store[types.Contact], log *zap.Logger) (*Manager, error) {
	log = logging.OrNop(log)
	c := collection.New(s, log.With(zap.String("collection", types.CollectionContacts)))
	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	return &Manager{contacts: c, log: log}, nil
}

// normalizeKey lower-cases email keys, which are stored lower-cased.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.Contains(key, "@") {
		return strings.ToLower(key)
	}
	return key
}

// Add stores c. It fails with types.ErrDuplicate if the phone or email is
// already on file.
func (m *Manager) Add(c types.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return m.contacts.Add(c)
}

// Remove deletes the contact with the given phone or email.
func (m *Manager) Remove(phoneOrEmail string) (types.Contact, error) {
	return m.contacts.Remove(normalizeKey(phoneOrEmail))
}

// Find returns the contact with the given phone or email.
func (m *Manager) Find(phoneOrEmail string) (types.Contact, bool) {
	return m.contacts.Get(normalizeKey(phoneOrEmail))
}

// Search matches keyword against name, phone, email and address, ignoring
// case.
func (m *Manager) Search(keyword string) []types.Contact {
	return m.contacts.Search(strings.TrimSpace(keyword))
}

// Update changes the fields set in u on the contact with the given phone or
// email. The result is validated and normalized like a new contact.
func (m *Manager) Update(phoneOrEmail string, u Update) (types.Contact, error) {
	return m.contacts.Update(normalizeKey(phoneOrEmail), func(c *types.Contact) error {
		name, phone, email, address := c.Name, c.Phone, c.Email, c.Address
		if u.Name != nil {
			name = *u.Name
		}
		if u.Phone != nil {
			phone = *u.Phone
		}
		if u.Email != nil {
			email = *u.Email
		}
		if u.Address != nil {
			address = *u.Address
		}
		next, err := types.NewContact(name, phone, email, address)
		if err != nil {
			return err
		}
		*c = next
		return nil
	})
}

// Sort reorders the contacts by name, phone or email and saves the order.
func (m *Manager) Sort(by string) error {
	var field func(types.Contact) string
	switch strings.ToLower(strings.TrimSpace(by)) {
	case SortByName:
		field = func(c types.Contact) string { return c.Name }
	case SortByPhone:
		field = func(c types.Contact) string { return c.Phone }
	case SortByEmail:
		field = func(c types.Contact) string { return c.Email }
	default:
		return &types.FieldError{Field: "sort", Reason: "can only sort by name, phone, or email"}
	}
	return m.contacts.Sort(collection.SortBy(field))
}

// All returns the contacts in stored order.
func (m *Manager) All() []types.Contact {
	return m.contacts.All()
}

// Len returns the number of contacts.
func (m *Manager) Len() int {
	return m.contacts.Len()
}

// Save rewrites the store.
func (m *Manager) Save() error {
	return m.contacts.Save()
}

// ExportCSV writes every contact to path with header name,phone,email,address.
func (m *Manager) ExportCSV(path string) error {
	return store.ExportCSV[types.Contact](path, CSVCodec{}, m.contacts.All())
}

// ImportCSV adds each valid row of path. Invalid and duplicate rows are
// skipped and returned.
func (m *Manager) ImportCSV(path string) (int, []error, error) {
	rows, rowErrs, err := store.ImportCSV[types.Contact](path, CSVCodec{})
	if err != nil {
		return 0, nil, err
	}
	var skipped []error
	for _, re := range rowErrs {
		skipped = append(skipped, re)
	}
	imported := 0
	for _, c := range rows {
		if err := m.contacts.Add(c); err != nil {
			skipped = append(skipped, fmt.Errorf("contact %s: %w", c.Phone, err))
			m.log.Warn("skipping contact on import", zap.String("phone", c.Phone), zap.Error(err))
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

// Backup writes a timestamped copy of the contacts into dir.
func (m *Manager) Backup(dir string, now time.Time) (string, error) {
	return store.Backup(dir, BackupPrefix, m.contacts.All(), now)
}

// CSVCodec maps contacts to name,phone,email,address rows.
type CSVCodec struct{}

// Header returns the contact CSV columns.
func (CSVCodec) Header() []string {
	return []string{"name", "phone", "email", "address"}
}

// Row renders c.
func (CSVCodec) Row(c types.Contact) []string {
	return []string{c.Name, c.Phone, c.Email, c.Address}
}

// Parse builds a validated contact from one row.
func (CSVCodec) Parse(fields []string) (types.Contact, error) {
	return types.NewContact(fields[0], fields[1], fields[2], fields[3])
}
