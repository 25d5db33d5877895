package cli

import (
	"encoding/json"
	"io"

	"github.com/nursequest/nursequest/internal/daemon"
)

var (
	flagProfile string
	flagStore   string
)

// openDaemon loads the config, applies global flags and wires a daemon.
func openDaemon() (*daemon.Daemon, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flagProfile != "" {
		cfg.Profile.ID = flagProfile
	}
	if flagStore != "" {
		cfg.Store.Backend = flagStore
	}
	d, err := daemon.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	if rootCmd.Version != "" {
		d.Server.SetVersion(rootCmd.Version)
	}
	return d, nil
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
