package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/paths"
	"github.com/mesh-intelligence/storefront/pkg/backend"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize storefront configuration and storage",
		Long:  "Create the configuration directory and config.yaml if missing, then attach the storage backend once to create its files.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, e)
		},
	}
}

func runInit(cmd *cobra.Command, e *env) error {
	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return systemError(fmt.Errorf("create config directory: %w", err))
	}

	cfg, err := e.config()
	if err != nil {
		return err
	}

	// Only an explicit --data-dir is pinned in config.yaml.
	pinnedDataDir := ""
	if e.flags.dataDir != "" {
		pinnedDataDir = cfg.DataDir
	}
	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, cfg, pinnedDataDir)
	if err != nil {
		return systemError(fmt.Errorf("write config: %w", err))
	}

	store, err := backend.Open(cfg, e.logger)
	if err != nil {
		return systemError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := store.Detach(); err != nil {
		return systemError(fmt.Errorf("finalize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Storefront initialized (%s backend, data in %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
