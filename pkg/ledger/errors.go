package ledger

import "errors"

var (
	// ErrNotFound is returned when no contribution record matches an id.
	ErrNotFound = errors.New("roommate not found")

	// ErrEmptyRoommateList is returned when an average is requested with no records.
	ErrEmptyRoommateList = errors.New("roommate list is empty")

	// ErrInvalidAmount is returned for negative, NaN or infinite amounts and for
	// results that leave the float64 range.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownRoommate is returned when a payment names a non-negative id
	// that has no contribution record.
	ErrUnknownRoommate = errors.New("unknown roommate")

	// ErrDuplicateRoommate is returned when adding an id that already has a record.
	ErrDuplicateRoommate = errors.New("roommate already exists")

	// ErrInvalidRoommateID is returned when adding a negative id.
	ErrInvalidRoommateID = errors.New("invalid roommate id")

	// ErrStoreUnavailable wraps failures of the underlying store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStoreCorrupt is returned when the stored document cannot be decoded.
	ErrStoreCorrupt = errors.New("stored document is corrupt")

	// ErrDocumentNotFound is returned by a Store when no document exists yet.
	ErrDocumentNotFound = errors.New("document not found")
)
