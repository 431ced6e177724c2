package mixed

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// unmanaged holds its payload directly. Immutable after construction.
// The zero value is the canonical null.
type unmanaged struct {
	value any
	k     ValueKind
}

func newUnmanaged(value any, k ValueKind) Mixed {
	if value == nil {
		k = KindNone
	}
	return Mixed{rep: unmanaged{value: value, k: k}}
}

func (u unmanaged) managed() bool { return false }
func (u unmanaged) valid() bool   { return true }
func (u unmanaged) frozen() bool  { return false }

func (u unmanaged) kind() (ValueKind, error) {
	return u.k, nil
}

// get ignores the expected kind; the facade's reinterpretation of the
// payload is what catches mismatches.
func (u unmanaged) get(ValueKind) (any, error) {
	return u.value, nil
}

// Null returns an unmanaged value holding nothing.
func Null() Mixed {
	return Mixed{rep: unmanaged{}}
}

// Int64 returns an unmanaged int64 value. A nil argument yields the
// null value, as with every factory below.
func Int64(v *int64) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindInt64)
}

// Bool returns an unmanaged bool value.
func Bool(v *bool) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindBool)
}

// Float32 returns an unmanaged float32 value.
func Float32(v *float32) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindFloat32)
}

// Float64 returns an unmanaged float64 value.
func Float64(v *float64) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindFloat64)
}

// String returns an unmanaged string value.
func String(v *string) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindString)
}

// Binary returns an unmanaged byte-slice value. The slice is not
// copied; callers must not mutate it afterwards.
func Binary(v []byte) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(v, KindBinary)
}

// Timestamp returns an unmanaged timestamp value.
func Timestamp(v *time.Time) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindTimestamp)
}

// ObjectID returns an unmanaged ObjectID value.
func ObjectID(v *primitive.ObjectID) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindObjectID)
}

// Decimal128 returns an unmanaged Decimal128 value.
func Decimal128(v *primitive.Decimal128) Mixed {
	if v == nil {
		return Null()
	}
	return newUnmanaged(*v, KindDecimal128)
}
