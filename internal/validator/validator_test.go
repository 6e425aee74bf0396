package validator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packageYAML returns a well-formed package record with two platforms
func packageYAML(name string, extra string) string {
	return fmt.Sprintf(`name: %s
description: The %s package
category: cli
popularity: 50
platforms:
  apt: %s
  brew: %s
tags: [tool]
%s`, name, name, name, name, extra)
}

func writeTree(t *testing.T, files map[string]string) *models.BuildConfig {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	config := &models.BuildConfig{RootDir: root}
	config.ApplyDefaults()
	return config
}

func copySchemas(t *testing.T, config *models.BuildConfig) {
	t.Helper()
	dst := config.Path(config.SchemasDir)
	require.NoError(t, os.MkdirAll(dst, 0755))
	for _, name := range []string{models.PackageSchemaFile, models.GroupSchemaFile} {
		data, err := os.ReadFile(filepath.Join("..", "..", "schemas", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, name), data, 0644))
	}
}

func TestRunValidTree(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/vcs/git.yaml":  packageYAML("git", "dependencies:\n  required:\n    - package: curl\n      reason: https\n"),
		"packages/net/curl.yaml": packageYAML("curl", "alternatives: [git]\n"),
		"groups/essentials.yaml": "id: essentials\nname: Essentials\ndescription: Basics\ncategory: base\npackages:\n  required: [git]\n  optional: [curl]\nplatform_overrides:\n  brew:\n    casks: [not-a-package]\n",
	})
	copySchemas(t, config)

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	assert.Empty(t, result.Report.Errors)
	assert.Empty(t, result.Report.Warnings)
	assert.Len(t, result.Packages, 2)
	assert.Len(t, result.Groups, 1)

	// Traversal order follows lexical paths
	assert.Equal(t, "curl", result.Packages[0].Entity.Name)
	assert.Equal(t, "git", result.Packages[1].Entity.Name)
}

func TestRunMissingRequiredDependency(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/a.yaml": packageYAML("a", "dependencies:\n  required:\n    - package: b\n      reason: needs b\n"),
	})

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	require.Len(t, result.Report.Errors, 1)

	issue := result.Report.Errors[0]
	assert.Equal(t, models.ErrStructural, issue.Type)
	assert.Contains(t, issue.Message, "'a'")
	assert.Contains(t, issue.Message, "'b'")

	_, err = Run(context.Background(), config, report.FailFast)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown required dependency 'b'")
}

func TestRunDuplicateNames(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/x.yaml": packageYAML("dup", ""),
		"packages/y.yaml": packageYAML("dup", ""),
	})
	xPath := filepath.Join(config.RootDir, "packages", "x.yaml")
	yPath := filepath.Join(config.RootDir, "packages", "y.yaml")

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)

	var dup *report.Issue
	for i, issue := range result.Report.Errors {
		if strings.Contains(issue.Message, "duplicate package name 'dup'") {
			dup = &result.Report.Errors[i]
		}
	}
	require.NotNil(t, dup, "expected a duplicate-name error in %v", result.Report.Lines())
	assert.Equal(t, yPath, dup.Path)
	assert.Contains(t, dup.Message, xPath)

	_, err = Run(context.Background(), config, report.FailFast)
	require.Error(t, err)

	var pkgErr *models.PkgDBError
	require.True(t, errors.As(err, &pkgErr))
	assert.Equal(t, yPath, pkgErr.Path)
	assert.Contains(t, pkgErr.Error(), "duplicate package name 'dup'")
}

func TestRunPopularityOutOfRange(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/hot.yaml": strings.Replace(packageYAML("hot", ""), "popularity: 50", "popularity: 150", 1),
	})

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	require.Len(t, result.Report.Errors, 1)
	assert.Contains(t, result.Report.Errors[0].Message, "popularity 150")
	assert.Contains(t, result.Report.Errors[0].Message, "maximum of 100")
}

func TestRunBadTagIsWarning(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/tagged.yaml": strings.Replace(packageYAML("tagged", ""), "tags: [tool]", `tags: ["Foo_Bar"]`, 1),
	})

	result, err := Run(context.Background(), config, report.FailFast)
	require.NoError(t, err)
	assert.Empty(t, result.Report.Errors)
	require.Len(t, result.Report.Warnings, 1)
	assert.Contains(t, result.Report.Warnings[0].Message, "Foo_Bar")
	assert.Len(t, result.Packages, 1)
}

func TestRunAdvisoryReferencesAndCoverage(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/solo.yaml": "name: solo\ndescription: d\ncategory: c\npopularity: 1\nplatforms:\n  pacman: solo\ntags: []\nalternatives: [ghost]\nrelated: [phantom]\n",
	})

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	assert.Empty(t, result.Report.Errors)
	require.Len(t, result.Report.Warnings, 3)
	assert.Contains(t, result.Report.Warnings[0].Message, "only 1 platform mapping")
	assert.Contains(t, result.Report.Warnings[1].Message, "unknown alternative 'ghost'")
	assert.Contains(t, result.Report.Warnings[2].Message, "unknown related package 'phantom'")
}

func TestRunGroupReferences(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/git.yaml": packageYAML("git", ""),
		"groups/dev.yaml":   "id: dev\nname: Dev\ndescription: d\ncategory: c\npackages:\n  required: [git, missing-one]\n  optional: [missing-two]\n",
		"groups/dev2.yaml":  "id: dev\nname: Dev again\ndescription: d\ncategory: c\npackages:\n  required: [git]\n",
	})

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)

	lines := strings.Join(result.Report.Lines(), "\n")
	assert.Contains(t, lines, "duplicate group id 'dev'")
	assert.Contains(t, lines, "group 'dev' references unknown required package 'missing-one'")
	assert.Contains(t, lines, "group 'dev' references unknown optional package 'missing-two'")
	assert.Len(t, result.Report.Errors, 3)
}

func TestRunSchemaViolationExcludesRecord(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/ok.yaml": packageYAML("ok", ""),
		// Missing description and category, plus a dangling dependency
		"packages/broken.yaml": "name: broken\npopularity: 3\nplatforms: {}\ntags: []\ndependencies:\n  required:\n    - package: nowhere\n      reason: r\n",
	})
	copySchemas(t, config)

	result, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	require.NotEmpty(t, result.Report.Errors)
	for _, issue := range result.Report.Errors {
		assert.Equal(t, models.ErrSchema, issue.Type)
		assert.Equal(t, filepath.Join(config.RootDir, "packages", "broken.yaml"), issue.Path)
	}
	require.Len(t, result.Packages, 1)
	assert.Equal(t, "ok", result.Packages[0].Entity.Name)
}

func TestRunRequiredSchemasMissing(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/ok.yaml": packageYAML("ok", ""),
	})
	config.RequireSchemas = true

	_, err := Run(context.Background(), config, report.CollectAll)
	require.Error(t, err)

	var pkgErr *models.PkgDBError
	require.True(t, errors.As(err, &pkgErr))
	assert.Equal(t, models.ErrInvalidConfig, pkgErr.Type)
}

func TestRunIsIdempotent(t *testing.T) {
	config := writeTree(t, map[string]string{
		"packages/a.yaml":       packageYAML("a", "dependencies:\n  optional:\n    - package: zz\n      reason: r\n"),
		"packages/b/b.yaml":     strings.Replace(packageYAML("b", ""), "tags: [tool]", "tags: [Upper]", 1),
		"packages/c/wrong.yaml": packageYAML("c", ""),
		"groups/g.yaml":         "id: g\nname: G\ndescription: d\ncategory: c\npackages:\n  required: [nope]\n",
	})

	first, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)
	second, err := Run(context.Background(), config, report.CollectAll)
	require.NoError(t, err)

	assert.NotEmpty(t, first.Report.Lines())
	assert.Equal(t, first.Report.Lines(), second.Report.Lines())
}
