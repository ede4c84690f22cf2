// Command asynclog drives a file sink from the shell: it appends piped input,
// manages sink configuration files and demonstrates the fatal path.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/asynclog"
)

var rootCmd = &cobra.Command{
	Use:           "asynclog",
	Short:         "Asynchronous rotating file sink",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	overrides  []string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML file with an [asynclog] table")
	rootCmd.PersistentFlags().StringArrayVarP(&overrides, "set", "s", nil, "key=value override, repeatable")
}

// loadConfig reads --config when given and applies every --set override on top
func loadConfig() (*asynclog.Config, error) {
	cfg := asynclog.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = asynclog.NewConfigFromFile(configPath); err != nil {
			return nil, err
		}
	}
	return asynclog.ApplyOverride(cfg, overrides...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
