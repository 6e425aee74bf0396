package models

// DatabaseVersion is the format version written into compiled databases
const DatabaseVersion uint32 = 1

// CompiledDatabase is the content of the compiled artifact.
// Index values are positions into Packages.
type CompiledDatabase struct {
	Version     uint32         `json:"version"`
	LastUpdated string         `json:"last_updated"`
	Packages    []Package      `json:"packages"`
	Groups      []PackageGroup `json:"groups"`

	IndexByName     map[string]int   `json:"index_by_name"`
	IndexByCategory map[string][]int `json:"index_by_category"`
	IndexByTag      map[string][]int `json:"index_by_tag"`
}
