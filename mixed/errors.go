package mixed

import "errors"

var (
	// ErrTypeMismatch indicates a typed accessor was called on a value
	// whose actual kind does not match. This is a caller bug; values are
	// never coerced between kinds.
	ErrTypeMismatch = errors.New("mixed: type mismatch")

	// ErrUnsupported indicates the operation has no contract yet, such
	// as extracting a link-kind value.
	ErrUnsupported = errors.New("mixed: operation not supported")

	// ErrStoreProtocol indicates the store boundary misbehaved: an
	// unknown type code, or a managed read against a deleted record or
	// closed store. Not recoverable at this layer.
	ErrStoreProtocol = errors.New("mixed: store protocol violation")
)
