package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skipbaeanjing/realm/mixed"
)

// A cell is the stored form of one polymorphic field: a type code byte
// followed by the payload bytes. Scalars are fixed-width big-endian,
// strings and binary are raw, timestamps are UnixNano, ObjectIDs are
// their 12 raw bytes, Decimal128 is high then low 8 bytes.

// encodeCell serializes a value as a cell. The payload is read through
// the value's own accessors, so managed values snapshot their current
// store state.
func encodeCell(v mixed.Mixed) ([]byte, error) {
	k, err := v.Type()
	if err != nil {
		return nil, err
	}

	switch k {
	case mixed.KindNone:
		return []byte{mixed.KindNone.Code()}, nil
	case mixed.KindInt64:
		i, err := v.AsInt64()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 9)
		buf[0] = k.Code()
		binary.BigEndian.PutUint64(buf[1:], uint64(i))
		return buf, nil
	case mixed.KindBool:
		b, err := v.AsBool()
		if err != nil {
			return nil, err
		}
		if b {
			return []byte{k.Code(), 1}, nil
		}
		return []byte{k.Code(), 0}, nil
	case mixed.KindFloat32:
		f, err := v.AsFloat32()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 5)
		buf[0] = k.Code()
		binary.BigEndian.PutUint32(buf[1:], math.Float32bits(f))
		return buf, nil
	case mixed.KindFloat64:
		f, err := v.AsFloat64()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 9)
		buf[0] = k.Code()
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
		return buf, nil
	case mixed.KindString:
		s, err := v.AsString()
		if err != nil {
			return nil, err
		}
		return append([]byte{k.Code()}, s...), nil
	case mixed.KindBinary:
		b, err := v.AsBinary()
		if err != nil {
			return nil, err
		}
		return append([]byte{k.Code()}, b...), nil
	case mixed.KindTimestamp:
		t, err := v.AsTimestamp()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 9)
		buf[0] = k.Code()
		binary.BigEndian.PutUint64(buf[1:], uint64(t.UnixNano()))
		return buf, nil
	case mixed.KindObjectID:
		id, err := v.AsObjectID()
		if err != nil {
			return nil, err
		}
		return append([]byte{k.Code()}, id[:]...), nil
	case mixed.KindDecimal128:
		d, err := v.AsDecimal128()
		if err != nil {
			return nil, err
		}
		h, l := d.GetBytes()
		buf := make([]byte, 17)
		buf[0] = k.Code()
		binary.BigEndian.PutUint64(buf[1:9], h)
		binary.BigEndian.PutUint64(buf[9:], l)
		return buf, nil
	default:
		return nil, fmt.Errorf("cannot encode %s cell: %w", k, mixed.ErrUnsupported)
	}
}

func decodeInt64(payload []byte) (int64, error) {
	if len(payload) != 8 {
		return 0, fmt.Errorf("int64 payload must be 8 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	return int64(binary.BigEndian.Uint64(payload)), nil
}

func decodeBool(payload []byte) (bool, error) {
	if len(payload) != 1 {
		return false, fmt.Errorf("bool payload must be 1 byte, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	return payload[0] != 0, nil
}

func decodeFloat32(payload []byte) (float32, error) {
	if len(payload) != 4 {
		return 0, fmt.Errorf("float32 payload must be 4 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(payload)), nil
}

func decodeFloat64(payload []byte) (float64, error) {
	if len(payload) != 8 {
		return 0, fmt.Errorf("float64 payload must be 8 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(payload)), nil
}

func decodeTimestamp(payload []byte) (time.Time, error) {
	if len(payload) != 8 {
		return time.Time{}, fmt.Errorf("timestamp payload must be 8 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	nanos := int64(binary.BigEndian.Uint64(payload))
	return time.Unix(0, nanos), nil
}

func decodeObjectID(payload []byte) (primitive.ObjectID, error) {
	var id primitive.ObjectID
	if len(payload) != 12 {
		return id, fmt.Errorf("objectid payload must be 12 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	copy(id[:], payload)
	return id, nil
}

func decodeDecimal128(payload []byte) (primitive.Decimal128, error) {
	if len(payload) != 16 {
		return primitive.Decimal128{}, fmt.Errorf("decimal128 payload must be 16 bytes, got %d: %w", len(payload), mixed.ErrStoreProtocol)
	}
	h := binary.BigEndian.Uint64(payload[:8])
	l := binary.BigEndian.Uint64(payload[8:])
	return primitive.NewDecimal128(h, l), nil
}
