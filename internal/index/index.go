// Package index builds position-based lookup tables over a validated,
// ordered package collection.
package index

import "github.com/heimdal-dev/pkgdb/internal/models"

// Indexes holds the lookup tables of a compiled database
type Indexes struct {
	ByName     map[string]int
	ByCategory map[string][]int
	ByTag      map[string][]int
}

// Build derives all indexes from packages. Names are assumed unique.
func Build(packages []models.Package) Indexes {
	return Indexes{
		ByName:     ByName(packages),
		ByCategory: ByCategory(packages),
		ByTag:      ByTag(packages),
	}
}

// ByName maps each package name to its position
func ByName(packages []models.Package) map[string]int {
	index := make(map[string]int, len(packages))
	for i, pkg := range packages {
		index[pkg.Name] = i
	}
	return index
}

// ByCategory maps each category to the positions of its packages, in collection order
func ByCategory(packages []models.Package) map[string][]int {
	index := make(map[string][]int)
	for i, pkg := range packages {
		index[pkg.Category] = append(index[pkg.Category], i)
	}
	return index
}

// ByTag maps each tag to the positions of the packages carrying it, in
// collection order. A tag listed twice on one package is indexed once.
func ByTag(packages []models.Package) map[string][]int {
	index := make(map[string][]int)
	for i, pkg := range packages {
		for _, tag := range pkg.Tags {
			positions := index[tag]
			if n := len(positions); n > 0 && positions[n-1] == i {
				continue
			}
			index[tag] = append(positions, i)
		}
	}
	return index
}

// Apply stores the indexes on db
func (ix Indexes) Apply(db *models.CompiledDatabase) {
	db.IndexByName = ix.ByName
	db.IndexByCategory = ix.ByCategory
	db.IndexByTag = ix.ByTag
}
