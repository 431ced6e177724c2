package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skipbaeanjing/realm/mixed"
)

// Row is a borrowed handle to one stored record. It holds no state
// beyond the store reference and the record id; every read goes to the
// store, so a Row observes mutations made through other handles.
//
// Row implements mixed.Accessor, which is how managed polymorphic
// values read their backing field.
type Row struct {
	store *Store
	id    RecordID
}

// ID returns the record id.
func (r *Row) ID() RecordID {
	return r.id
}

// Mixed returns the named field as a managed polymorphic value. The
// value is a live view: it reflects later writes to the field and
// becomes invalid if the record is deleted or the store closed.
func (r *Row) Mixed(field string) mixed.Mixed {
	return mixed.NewManaged(r, field)
}

// Set writes the given value into the named field, replacing whatever
// kind it previously held. Null values are stored as explicit null
// cells. Fails with ErrFrozen on a frozen view.
func (r *Row) Set(field string, v mixed.Mixed) error {
	cell, err := encodeCell(v)
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", field, err)
	}
	return r.store.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(recordKey(r.id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("record %s not found: %w", r.id.Hex(), mixed.ErrStoreProtocol)
			}
			return err
		}
		return txn.Set(cellKey(r.id, field), cell)
	})
}

// Fields lists the names of the record's stored fields in key order.
func (r *Row) Fields() ([]string, error) {
	var fields []string
	err := r.store.view(func(txn *badger.Txn) error {
		if _, err := txn.Get(recordKey(r.id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("record %s not found: %w", r.id.Hex(), mixed.ErrStoreProtocol)
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := cellKey(r.id, "")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			fields = append(fields, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Delete removes the record and all of its field cells. Managed values
// resolved from this record become invalid. Deleting a record that
// does not exist is a protocol error, as with Set.
func (r *Row) Delete() error {
	return r.store.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(recordKey(r.id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("record %s not found: %w", r.id.Hex(), mixed.ErrStoreProtocol)
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		prefix := cellKey(r.id, "")
		var cells [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			cells = append(cells, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range cells {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return txn.Delete(recordKey(r.id))
	})
}

// RecordValid reports whether the record still exists and the store is
// open. Checked fresh on every call.
func (r *Row) RecordValid() bool {
	exists := false
	err := r.store.view(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(r.id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	return err == nil && exists
}

// ContainerFrozen reports whether the owning store is a frozen view.
func (r *Row) ContainerFrozen() bool {
	return r.store.Frozen()
}

// ContainerClosed reports whether the owning store has been closed.
func (r *Row) ContainerClosed() bool {
	return r.store.Closed()
}

// fieldCell reads the named field's cell. A record without the cell
// holds an implicit null, so the None code is returned; a missing
// record is a protocol error.
func (r *Row) fieldCell(field string) (byte, []byte, error) {
	code := mixed.KindNone.Code()
	var payload []byte

	err := r.store.view(func(txn *badger.Txn) error {
		if _, err := txn.Get(recordKey(r.id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("record %s not found: %w", r.id.Hex(), mixed.ErrStoreProtocol)
			}
			return err
		}

		item, err := txn.Get(cellKey(r.id, field))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		cell, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if len(cell) == 0 {
			return fmt.Errorf("empty cell for field %q: %w", field, mixed.ErrStoreProtocol)
		}
		code = cell[0]
		payload = cell[1:]
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return code, payload, nil
}

// FieldTypeCode returns the field's current type code.
func (r *Row) FieldTypeCode(field string) (byte, error) {
	code, _, err := r.fieldCell(field)
	return code, err
}

// fieldPayload reads the field's payload after verifying the stored
// kind matches the requested one. No coercion: an int64 read of a
// string field fails, it does not parse.
func (r *Row) fieldPayload(field string, want mixed.ValueKind) ([]byte, error) {
	code, payload, err := r.fieldCell(field)
	if err != nil {
		return nil, err
	}
	if code != want.Code() {
		actual, err := mixed.KindFromCode(code)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("field %q holds %s, not %s: %w", field, actual, want, mixed.ErrTypeMismatch)
	}
	return payload, nil
}

func (r *Row) FieldInt64(field string) (int64, error) {
	payload, err := r.fieldPayload(field, mixed.KindInt64)
	if err != nil {
		return 0, err
	}
	return decodeInt64(payload)
}

func (r *Row) FieldBool(field string) (bool, error) {
	payload, err := r.fieldPayload(field, mixed.KindBool)
	if err != nil {
		return false, err
	}
	return decodeBool(payload)
}

func (r *Row) FieldFloat32(field string) (float32, error) {
	payload, err := r.fieldPayload(field, mixed.KindFloat32)
	if err != nil {
		return 0, err
	}
	return decodeFloat32(payload)
}

func (r *Row) FieldFloat64(field string) (float64, error) {
	payload, err := r.fieldPayload(field, mixed.KindFloat64)
	if err != nil {
		return 0, err
	}
	return decodeFloat64(payload)
}

func (r *Row) FieldString(field string) (string, error) {
	payload, err := r.fieldPayload(field, mixed.KindString)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (r *Row) FieldBinary(field string) ([]byte, error) {
	return r.fieldPayload(field, mixed.KindBinary)
}

func (r *Row) FieldTimestamp(field string) (time.Time, error) {
	payload, err := r.fieldPayload(field, mixed.KindTimestamp)
	if err != nil {
		return time.Time{}, err
	}
	return decodeTimestamp(payload)
}

func (r *Row) FieldObjectID(field string) (primitive.ObjectID, error) {
	payload, err := r.fieldPayload(field, mixed.KindObjectID)
	if err != nil {
		return primitive.ObjectID{}, err
	}
	return decodeObjectID(payload)
}

func (r *Row) FieldDecimal128(field string) (primitive.Decimal128, error) {
	payload, err := r.fieldPayload(field, mixed.KindDecimal128)
	if err != nil {
		return primitive.Decimal128{}, err
	}
	return decodeDecimal128(payload)
}
