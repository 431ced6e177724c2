package mixed

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mixed is a polymorphic value: it holds exactly one of the supported
// payload kinds, or nothing (KindNone). It has two modes. An unmanaged
// value owns its payload in memory and never changes after construction.
// A managed value is a live view of a field inside a stored record; its
// kind and payload are re-read from the store on every call, so it
// tracks mutations made through the store.
//
// Unmanaged values are built with the factory functions in this package
// (Int64, String, Null, ...). Managed values are built only by the
// storage layer.
//
// Callers that cannot guarantee a value's kind must check Type or
// IsNull before using a typed accessor; calling the wrong accessor
// fails with ErrTypeMismatch rather than converting.
type Mixed struct {
	rep representation
}

// repr treats the zero Mixed as the unmanaged null value.
func (m Mixed) repr() representation {
	if m.rep == nil {
		return unmanaged{}
	}
	return m.rep
}

// representation is the contract both variants satisfy. It is sealed:
// unmanaged and managed are the only implementations.
type representation interface {
	managed() bool
	valid() bool
	frozen() bool
	kind() (ValueKind, error)

	// get extracts the payload for the expected kind. The unmanaged
	// variant ignores the hint and returns its payload as-is; the
	// managed variant dispatches on it to a single typed store read.
	get(expected ValueKind) (any, error)
}

// IsManaged reports whether the value is backed by a store.
func (m Mixed) IsManaged() bool {
	return m.repr().managed()
}

// IsValid reports whether the value can still be read. Unmanaged values
// are always valid; a managed value becomes invalid when its record is
// deleted or its store is closed.
func (m Mixed) IsValid() bool {
	return m.repr().valid()
}

// IsFrozen reports whether the value belongs to a frozen store snapshot.
func (m Mixed) IsFrozen() bool {
	return m.repr().frozen()
}

// Type returns the value's current kind. For managed values this is
// read from the store on every call.
func (m Mixed) Type() (ValueKind, error) {
	return m.repr().kind()
}

// IsNull reports whether the value holds nothing (kind None).
func (m Mixed) IsNull() (bool, error) {
	k, err := m.repr().kind()
	if err != nil {
		return false, err
	}
	return k == KindNone, nil
}

// AsInt64 returns the payload if the value holds an int64.
func (m Mixed) AsInt64() (int64, error) {
	return extract[int64](m, KindInt64)
}

// AsBool returns the payload if the value holds a bool.
func (m Mixed) AsBool() (bool, error) {
	return extract[bool](m, KindBool)
}

// AsFloat32 returns the payload if the value holds a float32.
func (m Mixed) AsFloat32() (float32, error) {
	return extract[float32](m, KindFloat32)
}

// AsFloat64 returns the payload if the value holds a float64.
func (m Mixed) AsFloat64() (float64, error) {
	return extract[float64](m, KindFloat64)
}

// AsString returns the payload if the value holds a string.
func (m Mixed) AsString() (string, error) {
	return extract[string](m, KindString)
}

// AsBinary returns the payload if the value holds a byte slice.
func (m Mixed) AsBinary() ([]byte, error) {
	return extract[[]byte](m, KindBinary)
}

// AsTimestamp returns the payload if the value holds a timestamp.
func (m Mixed) AsTimestamp() (time.Time, error) {
	return extract[time.Time](m, KindTimestamp)
}

// AsObjectID returns the payload if the value holds an ObjectID.
func (m Mixed) AsObjectID() (primitive.ObjectID, error) {
	return extract[primitive.ObjectID](m, KindObjectID)
}

// AsDecimal128 returns the payload if the value holds a Decimal128.
func (m Mixed) AsDecimal128() (primitive.Decimal128, error) {
	return extract[primitive.Decimal128](m, KindDecimal128)
}

// AsLink resolves the record the value links to. Link extraction has no
// contract yet and always fails with ErrUnsupported.
func (m Mixed) AsLink() (Mixed, error) {
	return Mixed{}, fmt.Errorf("link extraction not implemented: %w", ErrUnsupported)
}

// extract runs the representation's typed read and reinterprets the
// result. A failed reinterpretation means the caller asked for a kind
// the value does not hold.
func extract[T any](m Mixed, expected ValueKind) (T, error) {
	var zero T
	v, err := m.repr().get(expected)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		if v == nil {
			return zero, fmt.Errorf("cannot read null value as %s: %w", expected, ErrTypeMismatch)
		}
		return zero, fmt.Errorf("cannot read %T as %s: %w", v, expected, ErrTypeMismatch)
	}
	return t, nil
}
