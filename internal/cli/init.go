package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tally storage",
		Long:  "Create the configuration and data directories, write config.yaml if missing,\nthen create an empty store for every collection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	if err := writeInitialConfig(flags); err != nil {
		return err
	}
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.close()

	for _, name := range types.StandardCollectionNames {
		if err := touchCollection(s.backend, name); err != nil {
			return sysErrorf("initialize %s: %w", name, err)
		}
		s.log.Debug("collection ready", zap.String("collection", name))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tally initialized (%s backend at %s)\n", s.settings.Backend, s.dataDir)
	return nil
}

// writeInitialConfig writes config.yaml on first run, recording the
// --backend and --data-dir flags so later commands need neither.
func writeInitialConfig(flags *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysErrorf("create config dir: %w", err)
	}
	initial := defaultSettings()
	if flags.backend != "" {
		initial.Backend = flags.backend
	}
	if flags.dataDir != "" {
		if initial.DataDir, err = filepath.Abs(flags.dataDir); err != nil {
			return sysErrorf("resolve data dir: %w", err)
		}
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), initial); err != nil {
		return sysErrorf("%w", err)
	}
	return nil
}

// touchCollection creates an empty store for name unless it already holds
// records.
func touchCollection(b *store.Backend, name string) error {
	st, err := store.Open[any](b, name)
	if err != nil {
		return err
	}
	items, err := st.Load()
	if err != nil || len(items) > 0 {
		return err
	}
	return st.Save(nil)
}
