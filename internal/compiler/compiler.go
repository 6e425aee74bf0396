// Package compiler turns a validated source tree into the published
// database artifact.
package compiler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/heimdal-dev/pkgdb/internal/artifact"
	"github.com/heimdal-dev/pkgdb/internal/codec"
	"github.com/heimdal-dev/pkgdb/internal/index"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
	"github.com/heimdal-dev/pkgdb/internal/signer"
	"github.com/heimdal-dev/pkgdb/internal/validator"
	"github.com/sirupsen/logrus"
)

// Summary describes a successful compilation
type Summary struct {
	Version  uint32
	Packages int
	Groups   int
	Size     int
	Stamp    *artifact.Stamp
	Report   *report.Report
}

// Compiler runs the validation and compilation paths for one configuration
type Compiler struct {
	config *models.BuildConfig
	signer signer.Signer
}

// New creates a compiler. s may be nil for an unsigned artifact.
func New(config *models.BuildConfig, s signer.Signer) *Compiler {
	return &Compiler{config: config, signer: s}
}

// Validate runs every check and returns the accumulated report.
// The returned error is only set for failures unrelated to record content.
func (c *Compiler) Validate(ctx context.Context) (*report.Report, error) {
	result, err := validator.Run(ctx, c.config, report.CollectAll)
	if err != nil {
		return result.Report, err
	}
	return result.Report, nil
}

// Compile validates the source tree, aborting on the first hard error, and
// publishes the encoded database with its checksum. Nothing is written
// unless every step succeeds.
func (c *Compiler) Compile(ctx context.Context) (*Summary, error) {
	cd, err := codec.New(c.config.Compression)
	if err != nil {
		return nil, err
	}

	result, err := validator.Run(ctx, c.config, report.FailFast)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Report.Warnings {
		logrus.Warn(w.String())
	}

	logrus.Info("Building indexes...")
	db := BuildDatabase(result, c.buildTime())

	logrus.Infof("Serializing database (compression: %s)...", cd.Compression())
	data, err := cd.Encode(db)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Encoded %d packages and %d groups into %d bytes", len(db.Packages), len(db.Groups), len(data))

	stamp, err := artifact.Publish(c.config.Path(c.config.OutputDir), data, c.signer)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Version:  db.Version,
		Packages: len(db.Packages),
		Groups:   len(db.Groups),
		Size:     len(data),
		Stamp:    stamp,
		Report:   result.Report,
	}, nil
}

func (c *Compiler) buildTime() time.Time {
	if c.config.BuildTime.IsZero() {
		return time.Now().UTC()
	}
	return c.config.BuildTime.UTC()
}

// BuildDatabase assembles the database from validated records. Packages are
// ordered by name and groups by id so the result does not depend on
// filesystem traversal order.
func BuildDatabase(result *validator.Result, buildTime time.Time) *models.CompiledDatabase {
	packages := make([]models.Package, 0, len(result.Packages))
	for _, rec := range result.Packages {
		packages = append(packages, rec.Entity)
	}
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	groups := make([]models.PackageGroup, 0, len(result.Groups))
	for _, rec := range result.Groups {
		groups = append(groups, rec.Entity)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].ID < groups[j].ID
	})

	db := &models.CompiledDatabase{
		Version:     models.DatabaseVersion,
		LastUpdated: buildTime.UTC().Format(time.RFC3339),
		Packages:    packages,
		Groups:      groups,
	}
	index.Build(packages).Apply(db)

	logrus.Debugf("Indexed %d names, %d categories, %d tags",
		len(db.IndexByName), len(db.IndexByCategory), len(db.IndexByTag))
	return db
}

// String summarises the compilation for logs
func (s *Summary) String() string {
	return fmt.Sprintf("version %d, %d packages, %d groups, %d bytes, sha256 %s",
		s.Version, s.Packages, s.Groups, s.Size, s.Stamp.Checksum.SHA256)
}
