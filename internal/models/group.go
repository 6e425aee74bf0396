package models

// PackageGroup is a named bundle of packages
type PackageGroup struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Category    string        `yaml:"category" json:"category"`
	Packages    GroupPackages `yaml:"packages" json:"packages"`

	// Package-manager-native names keyed by platform. These are not
	// resolved against the package collection.
	PlatformOverrides map[string]PlatformOverride `yaml:"platform_overrides" json:"platform_overrides"`
}

// GroupPackages lists the packages of a group by name
type GroupPackages struct {
	Required []string `yaml:"required" json:"required"`
	Optional []string `yaml:"optional" json:"optional"`
}

// PlatformOverride replaces or augments a group's packages on one platform
type PlatformOverride struct {
	Packages []string `yaml:"packages" json:"packages"`
	Casks    []string `yaml:"casks" json:"casks"`
}
