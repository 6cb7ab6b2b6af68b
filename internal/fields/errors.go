package fields

import "errors"

var (
	// ErrUnknownEntity is returned when an entity key is not one of
	// patients, staff or schedule.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrEmptyFieldName is returned when a custom field is created with a
	// blank label.
	ErrEmptyFieldName = errors.New("field name required")

	// ErrInvalidFieldType is returned for a type tag outside the supported
	// set.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrNoOptions is returned when a dropdown field is created without any
	// usable options.
	ErrNoOptions = errors.New("dropdown field requires at least one option")

	// ErrInvalidValue is returned by TypedValue when a stored or submitted
	// value does not parse as the field's declared type.
	ErrInvalidValue = errors.New("value does not match field type")
)

// OrderingError reports a reorder request whose id sequence does not match
// the current field set of the entity.
type OrderingError struct {
	Reason string
}

func (e *OrderingError) Error() string {
	return "ordering error: " + e.Reason
}
