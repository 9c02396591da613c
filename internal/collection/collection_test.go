package collection

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

type person struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (p person) Keys() []string         { return []string{p.Phone, p.Email} }
func (p person) SearchFields() []string { return []string{p.Name, p.Phone, p.Email} }

// memStore records every save and can be told to fail.
type memStore struct {
	items []person
	saves int
	fail  error
}

func (m *memStore) Load() ([]person, error) { return slices.Clone(m.items), nil }

func (m *memStore) Save(items []person) error {
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.items = slices.Clone(items)
	return nil
}

var (
	alice = person{Name: "Alice", Phone: "1234567", Email: "alice@mail.com"}
	bob   = person{Name: "Bob", Phone: "7654321", Email: "bob@mail.com"}
	carol = person{Name: "Carol", Phone: "5555555", Email: "carol@mail.com"}
)

func newTestCollection(t *testing.T, seed ...person) (*Collection[person], *memStore) {
	t.Helper()
	ms := &memStore{items: seed}
	c := New[person](ms, nil)
	require.NoError(t, c.Load())
	return c, ms
}

func TestAddAndGetByEitherKey(t *testing.T) {
	c, ms := newTestCollection(t)
	require.NoError(t, c.Add(alice))
	assert.Equal(t, 1, ms.saves)

	got, ok := c.Get("1234567")
	require.True(t, ok)
	assert.Equal(t, alice, got)

	got, ok = c.Get("alice@mail.com")
	require.True(t, ok)
	assert.Equal(t, alice, got)

	_, ok = c.Get("nobody")
	assert.False(t, ok)
}

func TestAddDuplicateLeavesCollectionUnchanged(t *testing.T) {
	tests := []struct {
		name string
		dup  person
	}{
		{name: "same phone", dup: person{Name: "Other", Phone: alice.Phone, Email: "other@mail.com"}},
		{name: "same email", dup: person{Name: "Other", Phone: "9999999", Email: alice.Email}},
		{name: "identical", dup: alice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ms := newTestCollection(t, alice, bob)
			err := c.Add(tt.dup)
			assert.ErrorIs(t, err, types.ErrDuplicate)
			assert.Equal(t, []person{alice, bob}, c.All())
			assert.Equal(t, 0, ms.saves)
		})
	}
}

func TestRemove(t *testing.T) {
	c, ms := newTestCollection(t, alice, bob, carol)

	removed, err := c.Remove("bob@mail.com")
	require.NoError(t, err)
	assert.Equal(t, bob, removed)
	assert.Equal(t, []person{alice, carol}, c.All())
	assert.Equal(t, []person{alice, carol}, ms.items)

	// Index follows the shifted positions.
	got, ok := c.Get(carol.Phone)
	require.True(t, ok)
	assert.Equal(t, carol, got)
	assert.False(t, c.Has(bob.Phone))
}

func TestRemoveMissingLeavesCollectionUnchanged(t *testing.T) {
	c, ms := newTestCollection(t, alice)
	_, err := c.Remove("0000000")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, []person{alice}, c.All())
	assert.Equal(t, 0, ms.saves)
}

func TestSearch(t *testing.T) {
	c, _ := newTestCollection(t, alice, bob, carol)

	assert.Equal(t, []person{alice}, c.Search("ali"))
	assert.Equal(t, []person{alice}, c.Search("ALI"))
	assert.Equal(t, []person{bob}, c.Search("765"))
	assert.Equal(t, []person{alice, bob, carol}, c.Search("mail.com"))
	assert.Empty(t, c.Search("zed"))
}

func TestUpdate(t *testing.T) {
	c, ms := newTestCollection(t, alice, bob)

	updated, err := c.Update(alice.Phone, func(p *person) error {
		p.Email = "alice@new.com"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.com", updated.Email)
	assert.Equal(t, 1, ms.saves)

	assert.False(t, c.Has("alice@mail.com"))
	got, ok := c.Get("alice@new.com")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
}

func TestUpdateFailuresLeaveCollectionUnchanged(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		key     string
		fn      func(*person) error
		wantErr error
	}{
		{
			name:    "missing key",
			key:     "0000000",
			fn:      func(*person) error { return nil },
			wantErr: types.ErrNotFound,
		},
		{
			name:    "fn error",
			key:     alice.Phone,
			fn:      func(p *person) error { p.Name = "changed"; return boom },
			wantErr: boom,
		},
		{
			name:    "key collision",
			key:     alice.Phone,
			fn:      func(p *person) error { p.Email = bob.Email; return nil },
			wantErr: types.ErrDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ms := newTestCollection(t, alice, bob)
			_, err := c.Update(tt.key, tt.fn)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []person{alice, bob}, c.All())
			assert.Equal(t, 0, ms.saves)
		})
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	c, ms := newTestCollection(t, alice)
	ms.fail = errors.New("disk full")

	assert.Error(t, c.Add(bob))
	assert.Equal(t, []person{alice}, c.All())
	assert.False(t, c.Has(bob.Phone))

	_, err := c.Remove(alice.Phone)
	assert.Error(t, err)
	assert.True(t, c.Has(alice.Phone))

	_, err = c.Update(alice.Phone, func(p *person) error { p.Name = "X"; return nil })
	assert.Error(t, err)
	got, _ := c.Get(alice.Phone)
	assert.Equal(t, "Alice", got.Name)
}

func TestSort(t *testing.T) {
	c, ms := newTestCollection(t, carol, alice, bob)
	require.NoError(t, c.Sort(SortBy(func(p person) string { return p.Name })))
	assert.Equal(t, []person{alice, bob, carol}, c.All())
	assert.Equal(t, []person{alice, bob, carol}, ms.items)

	got, ok := c.Get(carol.Email)
	require.True(t, ok)
	assert.Equal(t, carol, got)
}

func TestLoadSkipsDuplicates(t *testing.T) {
	log, observed := logging.NewObserved()
	ms := &memStore{items: []person{alice, {Name: "Dup", Phone: alice.Phone, Email: "d@mail.com"}, bob}}
	c := New[person](ms, log)
	require.NoError(t, c.Load())

	assert.Equal(t, []person{alice, bob}, c.All())
	assert.Equal(t, 1, observed.FilterMessage("skipping duplicate record").Len())
}

func TestSaveThenLoadReproducesCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	c := New[person](store.NewJSONFile[person](path, nil), nil)
	require.NoError(t, c.Load())
	for _, p := range []person{carol, alice, bob} {
		require.NoError(t, c.Add(p))
	}

	reloaded := New[person](store.NewJSONFile[person](path, nil), nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, c.All(), reloaded.All())
	assert.Equal(t, 3, reloaded.Len())
}
