package cli

import (
	"github.com/heimdal-dev/pkgdb/internal/artifact"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd(opts *globalOptions) *cobra.Command {
	var build models.BuildConfig

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check packages.db against its recorded checksum",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(&build); err != nil {
				return err
			}

			dir := build.Path(build.OutputDir)
			logrus.Infof("Verifying artifact in %s", dir)

			checksum, err := artifact.Verify(dir)
			if err != nil {
				return err
			}

			logrus.Infof("OK: %s (%d bytes, sha256 %s)", models.DatabaseFile, checksum.Size, checksum.SHA256)
			return nil
		},
	}

	cmd.Flags().StringVarP(&build.OutputDir, "output-dir", "o", "", "Directory holding the artifact (default \""+models.DefaultOutputDir+"\")")

	return cmd
}
