package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mesto-api/internal/pkg/idgen"
)

// ErrInvalidID is returned when an identifier does not have the stored id
// shape, before any query is issued.
var ErrInvalidID = errors.New("malformed identifier")

// ConstraintViolation reports a write rejected by a uniqueness or reference
// constraint.
type ConstraintViolation struct {
	Field string
	Err   error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation on %s: %v", e.Field, e.Err)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

func IsConstraintViolation(err error, field string) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv) && (field == "" || cv.Field == field)
}

// ValidID reports whether id has the shape of a stored identifier.
func ValidID(id string) bool {
	return idgen.Valid(id)
}

func checkID(id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return nil
}

// translate turns driver constraint errors (already normalised by gorm's
// TranslateError) into ConstraintViolation.
func translate(err error, uniqueField, refField string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConstraintViolation{Field: uniqueField, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ConstraintViolation{Field: refField, Err: err}
	}
	return err
}
