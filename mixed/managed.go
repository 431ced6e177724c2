package mixed

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Accessor is the capability a managed value reads its backing record
// through. The storage layer implements it; every method must reflect
// the store's state at call time, since the same managed value may be
// queried before and after the record changes.
//
// The typed Field reads are only called after FieldTypeCode confirmed
// the matching kind, except when the caller deliberately skipped the
// check; implementations must then fail rather than coerce.
type Accessor interface {
	RecordValid() bool
	ContainerFrozen() bool
	ContainerClosed() bool

	// FieldTypeCode returns the field's current type code, convertible
	// via KindFromCode.
	FieldTypeCode(field string) (byte, error)

	FieldInt64(field string) (int64, error)
	FieldBool(field string) (bool, error)
	FieldFloat32(field string) (float32, error)
	FieldFloat64(field string) (float64, error)
	FieldString(field string) (string, error)
	FieldBinary(field string) ([]byte, error)
	FieldTimestamp(field string) (time.Time, error)
	FieldObjectID(field string) (primitive.ObjectID, error)
	FieldDecimal128(field string) (primitive.Decimal128, error)
}

// managed is a live view of one polymorphic field of a stored record.
// It borrows the accessor; it owns nothing and caches nothing.
type managed struct {
	acc   Accessor
	field string
}

// NewManaged wraps a record field as a managed polymorphic value. It is
// intended for the storage layer; client code obtains managed values
// from records, not from this constructor.
func NewManaged(acc Accessor, field string) Mixed {
	return Mixed{rep: managed{acc: acc, field: field}}
}

func (m managed) managed() bool { return true }

func (m managed) valid() bool {
	return !m.acc.ContainerClosed() && m.acc.RecordValid()
}

func (m managed) frozen() bool {
	return m.acc.ContainerFrozen()
}

func (m managed) kind() (ValueKind, error) {
	code, err := m.acc.FieldTypeCode(m.field)
	if err != nil {
		return KindNone, err
	}
	return KindFromCode(code)
}

// get dispatches the expected kind to exactly one typed store read.
// None is never requested here (accessors bake in a concrete kind) and
// link extraction is rejected at the facade, so both fall through to
// the mismatch case.
func (m managed) get(expected ValueKind) (any, error) {
	switch expected {
	case KindInt64:
		return m.acc.FieldInt64(m.field)
	case KindBool:
		return m.acc.FieldBool(m.field)
	case KindFloat32:
		return m.acc.FieldFloat32(m.field)
	case KindFloat64:
		return m.acc.FieldFloat64(m.field)
	case KindString:
		return m.acc.FieldString(m.field)
	case KindBinary:
		return m.acc.FieldBinary(m.field)
	case KindTimestamp:
		return m.acc.FieldTimestamp(m.field)
	case KindObjectID:
		return m.acc.FieldObjectID(m.field)
	case KindDecimal128:
		return m.acc.FieldDecimal128(m.field)
	default:
		return nil, fmt.Errorf("cannot read field %q as %s: %w", m.field, expected, ErrTypeMismatch)
	}
}
