package validator

import (
	"regexp"

	"github.com/heimdal-dev/pkgdb/internal/loader"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
)

const (
	// MaxPopularity is the upper bound of Package.Popularity
	MaxPopularity = 100

	// MinPlatforms is the platform coverage below which a package is flagged
	MinPlatforms = 2
)

var tagPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// CheckDuplicates reports every package whose name was already seen earlier
// in traversal order. The later occurrence is the one reported.
func CheckDuplicates(packages []*loader.Record[models.Package], rep *report.Report) error {
	seen := make(map[string]string, len(packages))

	for _, rec := range packages {
		name := rec.Entity.Name
		if first, ok := seen[name]; ok {
			if err := rep.Error(models.ErrStructural, rec.Path,
				"duplicate package name '%s' (first seen in %s)", name, first); err != nil {
				return err
			}
			continue
		}
		seen[name] = rec.Path
	}

	return nil
}

// CheckGroupDuplicates reports every group whose id was already seen
func CheckGroupDuplicates(groups []*loader.Record[models.PackageGroup], rep *report.Report) error {
	seen := make(map[string]string, len(groups))

	for _, rec := range groups {
		id := rec.Entity.ID
		if first, ok := seen[id]; ok {
			if err := rep.Error(models.ErrStructural, rec.Path,
				"duplicate group id '%s' (first seen in %s)", id, first); err != nil {
				return err
			}
			continue
		}
		seen[id] = rec.Path
	}

	return nil
}

// CheckPackage runs the per-record checks on a single package
func CheckPackage(rec *loader.Record[models.Package], rep *report.Report) error {
	pkg := rec.Entity

	// Filename must match the declared name
	if rec.Stem != pkg.Name {
		if err := rep.Error(models.ErrStructural, rec.Path,
			"filename '%s' doesn't match package name '%s'", rec.Stem, pkg.Name); err != nil {
			return err
		}
	}

	if pkg.Popularity > MaxPopularity {
		if err := rep.Error(models.ErrStructural, rec.Path,
			"popularity %d exceeds maximum of %d", pkg.Popularity, MaxPopularity); err != nil {
			return err
		}
	}

	for _, tag := range pkg.Tags {
		if !tagPattern.MatchString(tag) {
			rep.Warn(rec.Path, "tag '%s' should be lowercase with hyphens only", tag)
		}
	}

	if n := len(pkg.Platforms.Available()); n < MinPlatforms {
		rep.Warn(rec.Path, "package '%s' has only %d platform mapping(s) (recommended: at least %d)",
			pkg.Name, n, MinPlatforms)
	}

	return nil
}

// CheckReferences verifies that every package and group reference resolves
// to a known package. Dependencies and group members are hard errors,
// alternatives and related packages are warnings.
func CheckReferences(packages []*loader.Record[models.Package], groups []*loader.Record[models.PackageGroup], rep *report.Report) error {
	known := make(map[string]struct{}, len(packages))
	for _, rec := range packages {
		known[rec.Entity.Name] = struct{}{}
	}
	exists := func(name string) bool {
		_, ok := known[name]
		return ok
	}

	for _, rec := range packages {
		pkg := rec.Entity

		for _, dep := range pkg.Dependencies.Required {
			if !exists(dep.Package) {
				if err := rep.Error(models.ErrStructural, rec.Path,
					"package '%s' has unknown required dependency '%s'", pkg.Name, dep.Package); err != nil {
					return err
				}
			}
		}
		for _, dep := range pkg.Dependencies.Optional {
			if !exists(dep.Package) {
				if err := rep.Error(models.ErrStructural, rec.Path,
					"package '%s' has unknown optional dependency '%s'", pkg.Name, dep.Package); err != nil {
					return err
				}
			}
		}
		for _, alt := range pkg.Alternatives {
			if !exists(alt) {
				rep.Warn(rec.Path, "package '%s' references unknown alternative '%s'", pkg.Name, alt)
			}
		}
		for _, rel := range pkg.Related {
			if !exists(rel) {
				rep.Warn(rec.Path, "package '%s' references unknown related package '%s'", pkg.Name, rel)
			}
		}
	}

	for _, rec := range groups {
		group := rec.Entity

		for _, name := range group.Packages.Required {
			if !exists(name) {
				if err := rep.Error(models.ErrStructural, rec.Path,
					"group '%s' references unknown required package '%s'", group.ID, name); err != nil {
					return err
				}
			}
		}
		for _, name := range group.Packages.Optional {
			if !exists(name) {
				if err := rep.Error(models.ErrStructural, rec.Path,
					"group '%s' references unknown optional package '%s'", group.ID, name); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// CheckStructure runs every structural check over the loaded collections
func CheckStructure(packages []*loader.Record[models.Package], groups []*loader.Record[models.PackageGroup], rep *report.Report) error {
	if err := CheckDuplicates(packages, rep); err != nil {
		return err
	}
	if err := CheckGroupDuplicates(groups, rep); err != nil {
		return err
	}
	for _, rec := range packages {
		if err := CheckPackage(rec, rep); err != nil {
			return err
		}
	}
	return CheckReferences(packages, groups, rep)
}
