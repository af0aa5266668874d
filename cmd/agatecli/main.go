// Command agatecli is a small command-line front end over the agate
// package, grounded on the teacher's cmd/semango/main.go root+subcommand
// cobra wiring, narrowed to the tabular-algebra surface this repo
// implements (no indexing/search commands).
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wireservice/agate-go/internal/cliconfig"
	"github.com/wireservice/agate-go/internal/clierr"
)

var (
	version = "dev"
	commit  = "none"
)

// AppConfig holds the configuration loaded by the root command's
// PersistentPreRunE, mirroring the teacher's package-level AppConfig.
var AppConfig *cliconfig.Config

var rootCmd = &cobra.Command{
	Use:   "agatecli",
	Short: "agatecli inspects, aggregates and converts tabular data files.",
	Long:  "A command-line front end over agate's in-memory tabular algebra engine.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		_ = godotenv.Load() // .env overrides are optional; ignore a missing file

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := cliconfig.Load(configPath, cliconfig.DefaultCueSchemaPath)
		if err != nil {
			wrapped := clierr.Wrap(err, "failed to load configuration", slog.String("config_path", configPath))
			clierr.Log(slog.Default(), wrapped)
			var unknownField *cliconfig.ErrUnknownField
			if errors.As(err, &unknownField) {
				os.Exit(78)
			}
			os.Exit(1)
		}
		AppConfig = cfg
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("agatecli: use -h for available commands (describe, agg, convert)")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default agatecli.yml configuration file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if err := cliconfig.WriteDefault(path); err != nil {
			return clierr.Wrap(err, "failed to write default config", slog.String("path", path))
		}
		fmt.Println("wrote", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agatecli %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", cliconfig.DefaultConfigPath, "path to the agatecli configuration file")
	initCmd.Flags().StringP("file", "f", cliconfig.DefaultConfigPath, "path to write the configuration file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(aggCmd)
	rootCmd.AddCommand(convertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		clierr.Log(slog.Default(), clierr.Wrap(err, "command execution failed"))
		os.Exit(1)
	}
}
