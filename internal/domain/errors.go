package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a food, recipe, or entry lookup misses, or
	// when the external source has no match for a query
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a food or recipe name is already taken
	ErrDuplicateName = errors.New("name already exists")

	// ErrDuplicateIngredient is returned when a food is added twice to the same
	// recipe or entry
	ErrDuplicateIngredient = errors.New("food already present")

	// ErrForeignKeyViolation is returned when a referenced row does not exist
	ErrForeignKeyViolation = errors.New("referenced row does not exist")

	// ErrDecode matches every *DecodeError
	ErrDecode = errors.New("malformed stored row")

	// ErrStorageUnavailable is returned when the store cannot be opened or created
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorage is returned for any other read or write failure
	ErrStorage = errors.New("storage error")

	// ErrNetwork is returned when the external nutrient source is unreachable,
	// times out, or answers with an unreadable body
	ErrNetwork = errors.New("nutrient source request failed")

	// ErrInvalidRequest is returned when user input fails validation
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// DecodeError describes a stored row that could not be turned back into a Food.
type DecodeError struct {
	Field  string // column name, empty when the whole row is wrong
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrDecode, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrDecode, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
