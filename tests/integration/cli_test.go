package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the tally binary once before running tests.
func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "tally-test-*")
	if err != nil {
		buildErr = err
	} else {
		buildTally(tmp)
	}
	code := m.Run()
	if tmp != "" {
		os.RemoveAll(tmp)
	}
	os.Exit(code)
}

var backends = []string{"json", "sqlite"}

func TestInitAndVersion(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			r := env.MustRun(nil, "init")
			assert.Contains(t, r.Stdout, "tally initialized ("+backend+" backend")
			assert.FileExists(t, filepath.Join(env.Config, "config.yaml"))

			r = env.MustRun(nil, "version")
			assert.Contains(t, r.Stdout, "tally v")
		})
	}
}

func TestContactsPersistAcrossRuns(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRun([]string{"1", "Alice", "1234567", "alice@mail.com", "", "10"}, "contacts")

			r := env.MustRun([]string{"3", "ali", "3", "bob", "10"}, "contacts")
			assert.Contains(t, r.Stdout, "Alice | 1234567 | alice@mail.com")
			assert.Contains(t, r.Stdout, "No matching contacts.")
		})
	}
}

func TestContactsCSVRoundTrip(t *testing.T) {
	env := NewTestEnv(t, "json")
	csvPath := filepath.Join(t.TempDir(), "contacts.csv")
	env.MustRun([]string{
		"1", "Alice", "1234567", "alice@mail.com", "",
		"1", "Bob", "7654321", "bob@mail.com", "",
		"7", csvPath,
		"10",
	}, "contacts")

	other := NewTestEnv(t, "json")
	r := other.MustRun([]string{"8", csvPath, "2", "10"}, "contacts")
	assert.Contains(t, r.Stdout, "Imported 2 contacts")
	assert.Contains(t, r.Stdout, "2. Bob")
}

func TestContactsBackup(t *testing.T) {
	env := NewTestEnv(t, "json")
	env.MustRun([]string{"1", "Alice", "1234567", "alice@mail.com", "", "9", "10"}, "contacts")

	matches, err := filepath.Glob(filepath.Join(env.DataDir, "backups", "backup_contacts_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var records []map[string]string
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "alice@mail.com", records[0]["email"])
}

func TestBankOverdraftScript(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			r := env.MustRun([]string{
				"1", "checking", "C1", "Akash", "100",
				"3", "C1", "600.01",
				"3", "C1", "600",
				"9",
			}, "bank")
			assert.Contains(t, r.Stdout, "Error: insufficient funds")
			assert.Contains(t, r.Stdout, "New balance: -500.00")

			r = env.MustRun([]string{"6", "C1", "9"}, "bank")
			assert.Contains(t, r.Stdout, "Withdrawal")
		})
	}
}

func TestCorruptStoreIsSetAside(t *testing.T) {
	env := NewTestEnv(t, "json")
	require.NoError(t, os.MkdirAll(env.DataDir, 0o755))
	path := filepath.Join(env.DataDir, "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	r := env.MustRun([]string{"6", "9"}, "inventory")
	assert.Contains(t, r.Stdout, "Inventory is empty.")
	assert.FileExists(t, path+".corrupt")
}

func TestBadBackendExitsWithSystemError(t *testing.T) {
	env := NewTestEnv(t, "paper")
	r := env.Run(nil, "contacts")
	assert.Equal(t, 2, r.ExitCode)
	assert.Contains(t, r.Stderr, "unknown backend")
}
