package contacts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newManager(t *testing.T, dir string) *Manager {
	t.Helper()
	m, err := NewManager(store.NewJSONFile[types.Contact](filepath.Join(dir, "contacts.json"), nil), nil)
	require.NoError(t, err)
	return m
}

func mustContact(t *testing.T, name, phone, email, address string) types.Contact {
	t.Helper()
	c, err := types.NewContact(name, phone, email, address)
	require.NoError(t, err)
	return c
}

func TestAddThenSearch(t *testing.T) {
	m := newManager(t, t.TempDir())
	alice := mustContact(t, "Alice", "1234567", "alice@mail.com", "")
	require.NoError(t, m.Add(alice))

	assert.Equal(t, []types.Contact{alice}, m.Search("ali"))
	assert.Empty(t, m.Search("bob"))
}

func TestAddRejectsDuplicatePhoneOrEmail(t *testing.T) {
	m := newManager(t, t.TempDir())
	require.NoError(t, m.Add(mustContact(t, "Alice", "1234567", "alice@mail.com", "")))

	err := m.Add(mustContact(t, "Alicia", "1234567", "alicia@mail.com", ""))
	assert.ErrorIs(t, err, types.ErrDuplicate)
	err = m.Add(mustContact(t, "Alicia", "7654321", "ALICE@mail.com", ""))
	assert.ErrorIs(t, err, types.ErrDuplicate)
	assert.Equal(t, 1, m.Len())
}

func TestAddRejectsInvalidContact(t *testing.T) {
	m := newManager(t, t.TempDir())
	err := m.Add(types.Contact{Name: "X", Phone: "12", Email: "x@mail.com"})
	assert.ErrorIs(t, err, types.ErrInvalidField)
	assert.Equal(t, 0, m.Len())
}

func TestFindAndRemove(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, dir)
	alice := mustContact(t, "Alice", "1234567", "alice@mail.com", "")
	require.NoError(t, m.Add(alice))

	got, ok := m.Find("Alice@Mail.com")
	require.True(t, ok)
	assert.Equal(t, alice, got)

	_, err := m.Remove("0000000")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 1, m.Len())

	removed, err := m.Remove("1234567")
	require.NoError(t, err)
	assert.Equal(t, alice, removed)

	// The removal is persisted.
	assert.Equal(t, 0, newManager(t, dir).Len())
}

func TestFindMixedCaseEmailFromFile(t *testing.T) {
	dir := t.TempDir()
	data := `[{"name":"Alice","phone":"1234567","email":"Alice@Mail.com","address":""}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.json"), []byte(data), 0o644))

	m := newManager(t, dir)
	require.Equal(t, 1, m.Len())
	c, ok := m.Find("alice@mail.com")
	require.True(t, ok)
	assert.Equal(t, "1234567", c.Phone)
	_, ok = m.Find("ALICE@MAIL.COM")
	assert.True(t, ok)

	dup := mustContact(t, "Other", "7654321", "alice@mail.com", "")
	assert.ErrorIs(t, m.Add(dup), types.ErrDuplicate)
}

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, dir)
	require.NoError(t, m.Add(mustContact(t, "Alice", "1234567", "alice@mail.com", "")))
	require.NoError(t, m.Add(mustContact(t, "Bob", "7654321", "bob@mail.com", "")))

	addr := "12 Elm Street"
	email := "ALICE@work.com"
	got, err := m.Update("1234567", Update{Address: &addr, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice@work.com", got.Email)
	assert.Equal(t, addr, got.Address)

	_, ok := m.Find("alice@work.com")
	assert.True(t, ok)

	bad := "nope"
	_, err = m.Update("1234567", Update{Email: &bad})
	assert.ErrorIs(t, err, types.ErrInvalidField)

	taken := "bob@mail.com"
	_, err = m.Update("1234567", Update{Email: &taken})
	assert.ErrorIs(t, err, types.ErrDuplicate)

	_, err = m.Update("0000000", Update{Address: &addr})
	assert.ErrorIs(t, err, types.ErrNotFound)

	reloaded := newManager(t, dir)
	got, ok = reloaded.Find("1234567")
	require.True(t, ok)
	assert.Equal(t, "alice@work.com", got.Email)
}

func TestSort(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, dir)
	require.NoError(t, m.Add(mustContact(t, "carol", "3333333", "a@mail.com", "")))
	require.NoError(t, m.Add(mustContact(t, "alice", "2222222", "c@mail.com", "")))
	require.NoError(t, m.Add(mustContact(t, "bob", "1111111", "b@mail.com", "")))

	names := func(cs []types.Contact) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	require.NoError(t, m.Sort("name"))
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(m.All()))
	require.NoError(t, m.Sort("phone"))
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names(m.All()))
	require.NoError(t, m.Sort("email"))
	assert.Equal(t, []string{"Carol", "Bob", "Alice"}, names(m.All()))

	assert.ErrorIs(t, m.Sort("address"), types.ErrInvalidField)
	assert.Equal(t, []string{"Carol", "Bob", "Alice"}, names(newManager(t, dir).All()))
}

func TestExportImportCSV(t *testing.T) {
	dir := t.TempDir()
	src := newManager(t, t.TempDir())
	require.NoError(t, src.Add(mustContact(t, "Alice", "1234567", "alice@mail.com", "1 Main St, Apt 2")))
	require.NoError(t, src.Add(mustContact(t, "Bob", "7654321", "bob@mail.com", "")))

	csvPath := filepath.Join(dir, "contacts.csv")
	require.NoError(t, src.ExportCSV(csvPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "name,phone,email,address\nAlice,1234567,alice@mail.com,\"1 Main St, Apt 2\"\nBob,7654321,bob@mail.com,\n", string(data))

	dst := newManager(t, t.TempDir())
	require.NoError(t, dst.Add(mustContact(t, "Bob", "7654321", "bob@mail.com", "")))
	n, skipped, err := dst.ImportCSV(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], types.ErrDuplicate)
	assert.Equal(t, 2, dst.Len())
}

func TestImportCSVSkipsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	content := "name,phone,email,address\n" +
		"alice,1234567,alice@mail.com,\n" +
		"bad,12,bad@mail.com,\n" +
		"short,1111111\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	m := newManager(t, dir)
	n, skipped, err := m.ImportCSV(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, skipped, 2)

	got, ok := m.Find("1234567")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
}

func TestImportCSVRejectsWrongHeader(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Name,Phone\nx,y\n"), 0o644))

	_, _, err := newManager(t, dir).ImportCSV(csvPath)
	assert.ErrorIs(t, err, types.ErrHeaderMismatch)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, dir)
	alice := mustContact(t, "Alice", "1234567", "alice@mail.com", "")
	require.NoError(t, m.Add(alice))

	path, err := m.Backup(filepath.Join(dir, "backups"), time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "backup_contacts_20250102_030405.json", filepath.Base(path))

	got, err := store.NewJSONFile[types.Contact](path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{alice}, got)
}
