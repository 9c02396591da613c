// Package cli implements the tally command-line interface: a cobra command
// tree whose domain subcommands run interactive numbered menus.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/tally"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
}

// sysError marks a failure of the environment (config, storage) rather
// than of user input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "tally" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:     "tally",
		Short:   "Small record-keeping tools backed by local storage",
		Long:    "tally keeps contacts, stock, library loans, bank accounts and shapes\nin a local data directory and offers a calculator with history.",
		Version: tally.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.tally-db)")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: json or sqlite (default from config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(flags),
		newContactsCmd(flags),
		newInventoryCmd(flags),
		newLibraryCmd(flags),
		newBankCmd(flags),
		newShapesCmd(flags),
		newCalcCmd(),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd()))
}

// run executes root and maps its error to an exit code.
func run(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
