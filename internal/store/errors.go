package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("store: duplicate key")

// Translate maps driver-specific constraint errors onto store sentinels and
// returns everything else unchanged.
func Translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
