// Package cli implements the storefront command-line interface: one-shot
// commands for browsing, cart management and checkout, plus an interactive
// shell that keeps one App open between commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	ephemeral bool
	verbose   bool
}

// env is the state shared by one command tree. In a shell session the App
// stays open across commands; otherwise it is closed after each command.
type env struct {
	flags   rootFlags
	stdin   io.Reader
	logger  *slog.Logger
	app     *storefront.App
	session bool
	out     io.Writer
}

// NewRootCmd creates the top-level "storefront" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{stdin: os.Stdin})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "A local-first storefront: catalog, cart and checkout",
		Long: "Storefront browses a product catalog, manages a persistent cart and\n" +
			"places simulated orders, keeping everything in a local store.",
		Version:       storefront.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if e.flags.verbose {
				level = slog.LevelDebug
			}
			e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			e.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&e.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.StringVar(&e.flags.backend, "backend", "", "storage backend: file, sqlite, badger, redis or memory")
	pf.BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&e.flags.ephemeral, "ephemeral", false, "keep everything in memory for this run")
	pf.BoolVarP(&e.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(e))
	root.AddCommand(newShellCmd(e))
	addSessionCommands(root, e)

	return root
}

// addSessionCommands registers the commands available both one-shot and
// inside the shell.
func addSessionCommands(parent *cobra.Command, e *env) {
	parent.AddCommand(newProductsCmd(e))
	parent.AddCommand(newCartCmd(e))
	parent.AddCommand(newCheckoutCmd(e))
	parent.AddCommand(newOrdersCmd(e))
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	e := &env{stdin: os.Stdin}
	if err := execute(e, newRootCmd(e)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// execute runs root and closes the App even when the command failed, since
// cobra skips post-run hooks after an error.
func execute(e *env, root *cobra.Command) error {
	err := root.Execute()
	if cerr := e.close(); err == nil && cerr != nil {
		err = systemError(cerr)
	}
	return err
}

// open returns the App for this command tree, opening it on first use.
func (e *env) open() (*storefront.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	app, err := storefront.Open(cfg,
		storefront.WithLogger(e.logger),
		storefront.WithCartListener(e.onCartChange),
	)
	if err != nil {
		return nil, systemError(err)
	}
	e.app = app
	return app, nil
}

// close releases the App unless a shell session owns it.
func (e *env) close() error {
	if e.session || e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// onCartChange is the rendering hook the cart ledger calls after every
// mutation. Save failures are shown; the mutation itself stands.
func (e *env) onCartChange(ev types.Event) {
	if ev.SaveErr != nil && e.out != nil {
		fmt.Fprintf(e.out, "warning: cart change not saved: %v\n", ev.SaveErr)
	}
}
