package storage

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skipbaeanjing/realm/mixed"
)

func ptr[T any](v T) *T {
	return &v
}

func TestEncodeCellCarriesKindCode(t *testing.T) {
	now := time.Unix(0, 1700000000000000000)
	oid := primitive.NewObjectID()
	dec, err := primitive.ParseDecimal128("42.5")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		value   mixed.Mixed
		kind    mixed.ValueKind
		payload int // expected payload length, -1 for variable
	}{
		{"null", mixed.Null(), mixed.KindNone, 0},
		{"int64", mixed.Int64(ptr(int64(-9))), mixed.KindInt64, 8},
		{"bool", mixed.Bool(ptr(false)), mixed.KindBool, 1},
		{"float32", mixed.Float32(ptr(float32(1.25))), mixed.KindFloat32, 4},
		{"float64", mixed.Float64(ptr(9.75)), mixed.KindFloat64, 8},
		{"string", mixed.String(ptr("cell")), mixed.KindString, 4},
		{"binary", mixed.Binary([]byte{0xde, 0xad}), mixed.KindBinary, 2},
		{"timestamp", mixed.Timestamp(ptr(now)), mixed.KindTimestamp, 8},
		{"objectid", mixed.ObjectID(ptr(oid)), mixed.KindObjectID, 12},
		{"decimal128", mixed.Decimal128(ptr(dec)), mixed.KindDecimal128, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := encodeCell(tt.value)
			if err != nil {
				t.Fatalf("encodeCell failed: %v", err)
			}
			if len(cell) == 0 {
				t.Fatal("empty cell")
			}
			if cell[0] != tt.kind.Code() {
				t.Errorf("expected code %d, got %d", tt.kind.Code(), cell[0])
			}
			if len(cell)-1 != tt.payload {
				t.Errorf("expected %d payload bytes, got %d", tt.payload, len(cell)-1)
			}
		})
	}
}

func TestScalarPayloadRoundTrips(t *testing.T) {
	now := time.Unix(0, 1700000000000000000)
	oid := primitive.NewObjectID()
	dec, err := primitive.ParseDecimal128("-0.001")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("int64", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Int64(ptr(int64(-12345))))
		got, err := decodeInt64(cell[1:])
		if err != nil || got != -12345 {
			t.Errorf("decodeInt64 = (%d, %v)", got, err)
		}
	})
	t.Run("bool", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Bool(ptr(true)))
		got, err := decodeBool(cell[1:])
		if err != nil || !got {
			t.Errorf("decodeBool = (%t, %v)", got, err)
		}
	})
	t.Run("float32", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Float32(ptr(float32(0.375))))
		got, err := decodeFloat32(cell[1:])
		if err != nil || got != 0.375 {
			t.Errorf("decodeFloat32 = (%g, %v)", got, err)
		}
	})
	t.Run("float64", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Float64(ptr(-2.5)))
		got, err := decodeFloat64(cell[1:])
		if err != nil || got != -2.5 {
			t.Errorf("decodeFloat64 = (%g, %v)", got, err)
		}
	})
	t.Run("timestamp", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Timestamp(ptr(now)))
		got, err := decodeTimestamp(cell[1:])
		if err != nil || !got.Equal(now) {
			t.Errorf("decodeTimestamp = (%v, %v)", got, err)
		}
	})
	t.Run("objectid", func(t *testing.T) {
		cell, _ := encodeCell(mixed.ObjectID(ptr(oid)))
		got, err := decodeObjectID(cell[1:])
		if err != nil || got != oid {
			t.Errorf("decodeObjectID = (%v, %v)", got, err)
		}
	})
	t.Run("decimal128", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Decimal128(ptr(dec)))
		got, err := decodeDecimal128(cell[1:])
		if err != nil || got != dec {
			t.Errorf("decodeDecimal128 = (%v, %v)", got, err)
		}
	})
	t.Run("binary", func(t *testing.T) {
		cell, _ := encodeCell(mixed.Binary([]byte{1, 2, 3}))
		if !bytes.Equal(cell[1:], []byte{1, 2, 3}) {
			t.Errorf("binary payload = %v", cell[1:])
		}
	})
}

func TestTruncatedPayloadsFailDecode(t *testing.T) {
	short := []byte{1, 2, 3}

	if _, err := decodeInt64(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeInt64: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeBool(nil); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeBool: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeFloat32(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeFloat32: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeFloat64(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeFloat64: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeTimestamp(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeTimestamp: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeObjectID(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeObjectID: expected ErrStoreProtocol, got %v", err)
	}
	if _, err := decodeDecimal128(short); !errors.Is(err, mixed.ErrStoreProtocol) {
		t.Errorf("decodeDecimal128: expected ErrStoreProtocol, got %v", err)
	}
}
