// Package codec serializes a compiled database into its binary artifact form.
//
// The database is encoded as CBOR using the core deterministic encoding
// rules of RFC 8949 (shortest integer forms, map keys sorted), so identical
// databases always produce identical bytes. The encoded bytes may then be
// compressed.
package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/utils"
	"github.com/sirupsen/logrus"
)

// Codec encodes and decodes compiled databases
type Codec struct {
	enc         cbor.EncMode
	dec         cbor.DecMode
	compression string
}

// New creates a codec using the named compression ("none" for raw CBOR)
func New(compression string) (*Codec, error) {
	if compression == "" {
		compression = utils.CompressionNone
	}
	if !utils.ValidCompression(compression) {
		return nil, &models.PkgDBError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("unsupported compression: %s", compression),
		}
	}

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR decoder: %w", err)
	}

	return &Codec{enc: enc, dec: dec, compression: compression}, nil
}

// Compression returns the compression algorithm of the codec
func (c *Codec) Compression() string {
	return c.compression
}

// Marshal encodes db without verifying the result
func (c *Codec) Marshal(db *models.CompiledDatabase) ([]byte, error) {
	raw, err := c.enc.Marshal(db)
	if err != nil {
		return nil, fmt.Errorf("failed to encode database: %w", err)
	}

	data, err := utils.Compress(raw, c.compression)
	if err != nil {
		return nil, fmt.Errorf("failed to compress database: %w", err)
	}

	logrus.Debugf("Encoded database: %d bytes raw, %d bytes %s", len(raw), len(data), c.compression)
	return data, nil
}

// Unmarshal decodes an artifact produced by Marshal
func (c *Codec) Unmarshal(data []byte) (*models.CompiledDatabase, error) {
	raw, err := utils.Decompress(data, c.compression)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress database: %w", err)
	}

	var db models.CompiledDatabase
	if err := c.dec.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("failed to decode database: %w", err)
	}
	return &db, nil
}

// Encode encodes db and decodes the result again. The bytes are returned
// only when the decoded database equals db.
func (c *Codec) Encode(db *models.CompiledDatabase) ([]byte, error) {
	data, err := c.Marshal(db)
	if err != nil {
		return nil, &models.PkgDBError{Type: models.ErrSerialization, Err: err}
	}

	decoded, err := c.Unmarshal(data)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrSerialization,
			Err:  fmt.Errorf("self-check failed: %w", err),
		}
	}

	if !reflect.DeepEqual(decoded, db) {
		return nil, &models.PkgDBError{
			Type: models.ErrSerialization,
			Err:  fmt.Errorf("self-check failed: decoded database differs from input"),
		}
	}

	logrus.Debugf("Self-check passed: %d packages, %d groups", len(decoded.Packages), len(decoded.Groups))
	return data, nil
}
