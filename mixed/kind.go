package mixed

import "fmt"

// ValueKind identifies which payload type a polymorphic value currently
// holds. The byte value doubles as the stable code used on the store
// boundary, so the constants must never be reordered.
type ValueKind byte

const (
	KindNone ValueKind = iota // no value / null
	KindInt64
	KindBool
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindTimestamp
	KindObjectID
	KindDecimal128
	KindLink // reference to another record
)

// KindFromCode converts a type code read from the store back to a
// ValueKind. The store and this package share the code table; a code
// outside it means the two sides disagree and is a protocol error.
func KindFromCode(code byte) (ValueKind, error) {
	k := ValueKind(code)
	if k > KindLink {
		return KindNone, fmt.Errorf("unknown type code %d: %w", code, ErrStoreProtocol)
	}
	return k, nil
}

// Code returns the stable store code for the kind.
func (k ValueKind) Code() byte {
	return byte(k)
}

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindTimestamp:
		return "timestamp"
	case KindObjectID:
		return "objectid"
	case KindDecimal128:
		return "decimal128"
	case KindLink:
		return "link"
	default:
		return fmt.Sprintf("ValueKind(%d)", byte(k))
	}
}
