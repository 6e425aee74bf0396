package cli

import (
	"github.com/heimdal-dev/pkgdb/internal/config"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	rootDir    string
	configPath string
}

// resolve completes build from the global flags, the project file and the environment
func (o *globalOptions) resolve(build *models.BuildConfig) error {
	build.RootDir = o.rootDir
	return config.Resolve(build, o.configPath)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pkgdb",
		Short: "Compile package records into a validated, indexed database",
		Long: `Pkgdb reads Package and PackageGroup records written in YAML,
validates them against their JSON schemas and against each other, and
compiles them into a single binary database with a SHA-256 checksum.

Source layout (relative to --root):
  packages/   one record per package, file name equals the package name
  groups/     one record per package group
  schemas/    package.schema.json and group.schema.json
  pkgdb.yaml  optional project configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&opts.rootDir, "root", "r", ".", "Root of the source tree")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Project config file (default <root>/"+config.ConfigFileName+")")

	// Add subcommands
	rootCmd.AddCommand(NewValidateCmd(opts))
	rootCmd.AddCommand(NewCompileCmd(opts))
	rootCmd.AddCommand(NewVerifyCmd(opts))

	return rootCmd
}
