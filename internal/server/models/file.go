package models

// FileRecord is the metadata row tracked for every stored object.
//
// A row with StorageKey K is expected to exist iff an object with key K exists
// in the bucket. The pairing is best effort: partial failures between the
// object write/delete and the matching row write/delete can leave an orphan
// on either side (see the service layer).
type FileRecord struct {
	// ID is the storage-assigned surrogate key.
	ID int64
	// OwnerID references the owning User. Never empty.
	OwnerID string
	// Filename is the original display name. Not unique.
	Filename string
	// StorageKey is the globally unique object key,
	// formatted "user_<ownerID>/<filename>".
	StorageKey string
	// Size is the byte count, fixed at creation.
	Size int64
	// UploadedAt is the creation timestamp, preformatted for the wire.
	UploadedAt string
}
