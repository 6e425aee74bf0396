package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/heimdal-dev/pkgdb/internal/compiler"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
	"github.com/heimdal-dev/pkgdb/internal/utils"
	"github.com/heimdal-dev/pkgdb/internal/watch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command
func NewValidateCmd(opts *globalOptions) *cobra.Command {
	var build models.BuildConfig
	var watchMode bool
	var reportPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every record and report all problems",
		Long: `Runs schema and structural validation over the whole source tree,
collecting every error and warning instead of stopping at the first one.
The report is printed to stdout, one issue per line, warnings first.
Exits non-zero when any error was found. Warnings never fail the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(&build); err != nil {
				return err
			}
			build.RequireSchemas = true
			logrus.Debugf("Configuration: %+v", build)

			v := &validation{
				compiler:   compiler.New(&build, nil),
				out:        cmd.OutOrStdout(),
				reportPath: reportPath,
			}
			if reportPath != "" {
				v.reportPath = build.Path(reportPath)
			}

			if watchMode {
				dirs := []string{
					build.Path(build.PackagesDir),
					build.Path(build.GroupsDir),
					build.Path(build.SchemasDir),
				}
				logrus.Infof("Watching %s for changes (Ctrl+C to stop)", build.RootDir)
				return watch.New(dirs, build.Extension, watch.DefaultDebounce).Run(cmd.Context(), v.run)
			}

			return v.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run validation whenever a record or schema changes")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the report to this file")

	return cmd
}

// validation is one configured validate run, repeated in watch mode
type validation struct {
	compiler   *compiler.Compiler
	out        io.Writer
	reportPath string
}

func (v *validation) run(ctx context.Context) error {
	logrus.Info("Validating source tree...")

	rep, err := v.compiler.Validate(ctx)
	if err != nil {
		return err
	}

	if _, err := rep.WriteTo(v.out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if v.reportPath != "" {
		if err := writeReport(v.reportPath, rep); err != nil {
			return err
		}
	}

	if err := rep.Err(); err != nil {
		return err
	}

	logrus.Infof("Validation passed with %d warning(s)", len(rep.Warnings))
	return nil
}

func writeReport(path string, rep *report.Report) error {
	var buf bytes.Buffer
	if _, err := rep.WriteTo(&buf); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return &models.PkgDBError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to write report: %w", err),
		}
	}
	logrus.Infof("Wrote report to %s", path)
	return nil
}
