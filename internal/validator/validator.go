// Package validator runs the validation pipeline shared by the compile and
// validate paths: discovery, schema checks and structural checks. The two
// paths differ only in the report policy they pass in.
package validator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heimdal-dev/pkgdb/internal/loader"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
	"github.com/heimdal-dev/pkgdb/internal/scanner"
	"github.com/heimdal-dev/pkgdb/internal/schema"
	"github.com/sirupsen/logrus"
)

// Result holds the records that survived parsing and schema checks,
// in traversal order, together with the accumulated report
type Result struct {
	Packages []*loader.Record[models.Package]
	Groups   []*loader.Record[models.PackageGroup]
	Report   *report.Report
}

// Run validates the source tree described by config.
// Under report.FailFast the first hard error is returned. Under
// report.CollectAll every check runs and the caller inspects Result.Report.
// Errors unrelated to record content (unreadable schemas, scan failures)
// are returned under both policies.
func Run(ctx context.Context, config *models.BuildConfig, policy report.Policy) (*Result, error) {
	rep := report.New(policy)
	result := &Result{Report: rep}

	packageGate, groupGate, err := loadSchemas(config)
	if err != nil {
		return result, err
	}

	sc := scanner.NewFileSystemScanner(config.Extension)

	packagesDir := config.Path(config.PackagesDir)
	logrus.Infof("Loading packages from %s", packagesDir)
	packageFiles, err := sc.Scan(ctx, packagesDir, scanner.KindPackage)
	if err != nil {
		return result, &models.PkgDBError{Type: models.ErrFileOp, Path: packagesDir, Err: err}
	}

	result.Packages, err = loader.Load[models.Package](ctx, packageFiles, packageGate, rep)
	if err != nil {
		return result, err
	}
	logrus.Infof("Loaded %d of %d packages", len(result.Packages), len(packageFiles))

	groupsDir := config.Path(config.GroupsDir)
	logrus.Infof("Loading groups from %s", groupsDir)
	groupFiles, err := sc.Scan(ctx, groupsDir, scanner.KindGroup)
	if err != nil {
		return result, &models.PkgDBError{Type: models.ErrFileOp, Path: groupsDir, Err: err}
	}

	result.Groups, err = loader.Load[models.PackageGroup](ctx, groupFiles, groupGate, rep)
	if err != nil {
		return result, err
	}
	logrus.Infof("Loaded %d of %d groups", len(result.Groups), len(groupFiles))

	logrus.Info("Running structural checks...")
	if err := CheckStructure(result.Packages, result.Groups, rep); err != nil {
		return result, err
	}

	logrus.Debugf("Validation finished: %d error(s), %d warning(s)", len(rep.Errors), len(rep.Warnings))
	return result, nil
}

// loadSchemas compiles the package and group schemas into loader gates.
// A missing schema file disables that gate unless schemas are required.
func loadSchemas(config *models.BuildConfig) (loader.Gate, loader.Gate, error) {
	dir := config.Path(config.SchemasDir)

	packageGate, err := loadGate(filepath.Join(dir, models.PackageSchemaFile), config.RequireSchemas)
	if err != nil {
		return nil, nil, err
	}
	groupGate, err := loadGate(filepath.Join(dir, models.GroupSchemaFile), config.RequireSchemas)
	if err != nil {
		return nil, nil, err
	}
	return packageGate, groupGate, nil
}

func loadGate(path string, required bool) (loader.Gate, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			logrus.Warnf("Schema %s not found, skipping schema validation", path)
			return nil, nil
		}
		return nil, &models.PkgDBError{
			Type: models.ErrInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("schema is required: %w", err),
		}
	}

	v, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Compiled schema %s from %s", v.Name(), path)

	return func(doc *loader.Document) []string {
		return v.Validate(doc.Tree)
	}, nil
}
