package models

// Package represents a single software package record
type Package struct {
	// Core metadata
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	Popularity  uint8  `yaml:"popularity" json:"popularity"`

	// Platform availability
	Platforms Platforms `yaml:"platforms" json:"platforms"`

	// Relationships to other packages
	Dependencies Dependencies `yaml:"dependencies" json:"dependencies"`
	Alternatives []string     `yaml:"alternatives" json:"alternatives"`
	Related      []string     `yaml:"related" json:"related"`
	Tags         []string     `yaml:"tags" json:"tags"`

	// Optional informational fields
	Website *string `yaml:"website,omitempty" json:"website,omitempty"`
	License *string `yaml:"license,omitempty" json:"license,omitempty"`
	Source  *string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Platforms maps each supported platform to its install key.
// A nil field means the package is not available on that platform.
type Platforms struct {
	Apt    *string `yaml:"apt,omitempty" json:"apt,omitempty"`
	Brew   *string `yaml:"brew,omitempty" json:"brew,omitempty"`
	Dnf    *string `yaml:"dnf,omitempty" json:"dnf,omitempty"`
	Pacman *string `yaml:"pacman,omitempty" json:"pacman,omitempty"`
	Mas    *int64  `yaml:"mas,omitempty" json:"mas,omitempty"` // Mac App Store id
}

// Available returns the names of the platforms the package has a mapping for
func (p Platforms) Available() []string {
	var names []string
	if p.Apt != nil {
		names = append(names, "apt")
	}
	if p.Brew != nil {
		names = append(names, "brew")
	}
	if p.Dnf != nil {
		names = append(names, "dnf")
	}
	if p.Pacman != nil {
		names = append(names, "pacman")
	}
	if p.Mas != nil {
		names = append(names, "mas")
	}
	return names
}

// Dependencies holds the required and optional dependencies of a package
type Dependencies struct {
	Required []Dependency `yaml:"required" json:"required"`
	Optional []Dependency `yaml:"optional" json:"optional"`
}

// Dependency references another package by name
type Dependency struct {
	Package string `yaml:"package" json:"package"`
	Reason  string `yaml:"reason" json:"reason"`
}
