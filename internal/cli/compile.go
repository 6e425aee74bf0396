package cli

import (
	"fmt"

	"github.com/heimdal-dev/pkgdb/internal/compiler"
	"github.com/heimdal-dev/pkgdb/internal/config"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/signer"
	"github.com/heimdal-dev/pkgdb/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewCompileCmd creates the compile command
func NewCompileCmd(opts *globalOptions) *cobra.Command {
	var build models.BuildConfig
	var sourceDateEpoch string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the source tree into packages.db",
		Long: `Validates the source tree, stopping at the first error, then builds
the indexes, serializes the database and writes packages.db together with
packages.db.sha256 (and packages.db.asc when a GPG key is given).
Nothing in the output directory changes unless the whole run succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceDateEpoch != "" {
				t, err := config.ParseEpoch(sourceDateEpoch)
				if err != nil {
					return &models.PkgDBError{Type: models.ErrInvalidConfig, Err: err}
				}
				build.BuildTime = t
			}

			if err := opts.resolve(&build); err != nil {
				return err
			}
			if err := validateConfig(&build); err != nil {
				return err
			}

			logrus.Info("Starting database compilation...")
			logrus.Debugf("Configuration: %+v", build)

			var s signer.Signer
			if build.GPGKeyPath != "" {
				gpgSigner, err := signer.NewGPGSigner(build.Path(build.GPGKeyPath), build.GPGPassphrase)
				if err != nil {
					return &models.PkgDBError{
						Type: models.ErrSigning,
						Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
					}
				}
				logrus.Infof("GPG signer initialized (key %s)", gpgSigner.Fingerprint())
				s = gpgSigner
			}

			summary, err := compiler.New(&build, s).Compile(cmd.Context())
			if err != nil {
				return err
			}

			logrus.Info("Database compilation completed successfully!")
			logrus.Infof("Compiled %s", summary)
			logrus.Infof("Output directory: %s", build.Path(build.OutputDir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&build.OutputDir, "output-dir", "o", "", "Output directory (default \""+models.DefaultOutputDir+"\")")
	cmd.Flags().StringVar(&build.Compression, "compression", "", "Artifact compression: none, gzip, zstd or xz (default \""+models.DefaultCompression+"\")")

	// GPG signing flags
	cmd.Flags().StringVarP(&build.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key for a detached signature")
	cmd.Flags().StringVarP(&build.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase (or "+config.EnvGPGPassphrase+")")

	cmd.Flags().StringVar(&sourceDateEpoch, "source-date-epoch", "", "Unix time recorded as last_updated (or "+config.EnvSourceDateEpoch+")")

	return cmd
}

func validateConfig(build *models.BuildConfig) error {
	if !utils.ValidCompression(build.Compression) {
		return &models.PkgDBError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("unknown compression %q", build.Compression),
		}
	}
	return nil
}
