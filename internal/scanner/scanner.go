package scanner

import "context"

// RecordKind represents the kind of record a source file holds
type RecordKind int

const (
	KindUnknown RecordKind = iota
	KindPackage
	KindGroup
)

// String returns the string representation of RecordKind
func (k RecordKind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// SourceFile represents a record file found during scanning
type SourceFile struct {
	Path string
	Kind RecordKind
	Size int64
}

// Scanner interface for discovering source records
type Scanner interface {
	// Scan recursively scans a directory for records of one kind
	Scan(ctx context.Context, dir string, kind RecordKind) ([]SourceFile, error)
}
