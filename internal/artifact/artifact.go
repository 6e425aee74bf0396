// Package artifact publishes the encoded database and its integrity stamp.
//
// The database, its SHA-256 digest and the optional detached signature are
// staged as temporary files and renamed into place only once every one of
// them has been written, so a failed run leaves earlier artifacts untouched.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/signer"
	"github.com/heimdal-dev/pkgdb/internal/utils"
	"github.com/sirupsen/logrus"
)

// Stamp describes a published artifact
type Stamp struct {
	DatabasePath  string
	ChecksumPath  string
	SignaturePath string // empty when unsigned
	PublicKeyPath string // empty when unsigned
	Checksum      *utils.Checksum
}

type pendingFile struct {
	dest string
	data []byte
}

type stagedFile struct {
	tmp  string
	dest string
}

// Publish writes data and its digest into dir. When s is not nil a
// detached signature is written as well.
func Publish(dir string, data []byte, s signer.Signer) (*Stamp, error) {
	checksum := utils.CalculateChecksum(data)

	stamp := &Stamp{
		DatabasePath: filepath.Join(dir, models.DatabaseFile),
		ChecksumPath: filepath.Join(dir, models.ChecksumFile),
		Checksum:     checksum,
	}

	contents := []pendingFile{
		{stamp.DatabasePath, data},
		{stamp.ChecksumPath, []byte(checksum.SHA256)},
	}

	if s != nil {
		sig, err := s.SignDetached(data)
		if err != nil {
			return nil, &models.PkgDBError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to sign database: %w", err),
			}
		}
		pub, err := s.PublicKey()
		if err != nil {
			return nil, &models.PkgDBError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to export public key: %w", err),
			}
		}
		logrus.Infof("Signed database with key %s", s.Fingerprint())

		stamp.SignaturePath = filepath.Join(dir, models.SignatureFile)
		stamp.PublicKeyPath = filepath.Join(dir, models.PublicKeyFile)
		contents = append(contents,
			pendingFile{stamp.SignaturePath, sig},
			pendingFile{stamp.PublicKeyPath, pub},
		)
	}

	var staged []stagedFile
	discard := func() {
		for _, f := range staged {
			os.Remove(f.tmp)
		}
	}

	for _, c := range contents {
		tmp, err := utils.StageFile(c.dest, c.data, 0644)
		if err != nil {
			discard()
			return nil, &models.PkgDBError{
				Type: models.ErrFileOp,
				Path: c.dest,
				Err:  fmt.Errorf("failed to stage: %w", err),
			}
		}
		staged = append(staged, stagedFile{tmp: tmp, dest: c.dest})
	}

	for i, f := range staged {
		if err := os.Rename(f.tmp, f.dest); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(rest.tmp)
			}
			return nil, &models.PkgDBError{
				Type: models.ErrFileOp,
				Path: f.dest,
				Err:  fmt.Errorf("failed to publish: %w", err),
			}
		}
		logrus.Infof("Wrote %s", f.dest)
	}

	if s == nil {
		// Signature files from an earlier run no longer match
		for _, name := range []string{models.SignatureFile, models.PublicKeyFile} {
			stale := filepath.Join(dir, name)
			if err := os.Remove(stale); err == nil {
				logrus.Warnf("Removed stale %s", stale)
			} else if !errors.Is(err, os.ErrNotExist) {
				logrus.Warnf("Failed to remove stale %s: %v", stale, err)
			}
		}
	}

	return stamp, nil
}

// Verify re-hashes the database in dir and compares it with the persisted digest
func Verify(dir string) (*utils.Checksum, error) {
	dbPath := filepath.Join(dir, models.DatabaseFile)
	sumPath := filepath.Join(dir, models.ChecksumFile)

	expected, err := os.ReadFile(sumPath)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrFileOp,
			Path: sumPath,
			Err:  fmt.Errorf("failed to read checksum: %w", err),
		}
	}

	actual, err := utils.CalculateFileChecksum(dbPath)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrFileOp,
			Path: dbPath,
			Err:  fmt.Errorf("failed to hash database: %w", err),
		}
	}

	want := strings.TrimSpace(string(expected))
	if actual.SHA256 != want {
		return actual, &models.PkgDBError{
			Type: models.ErrIntegrity,
			Path: dbPath,
			Err:  fmt.Errorf("checksum mismatch: expected %s, got %s", want, actual.SHA256),
		}
	}

	return actual, nil
}
