package cnft

import "errors"

var (
	// ErrBadMerkleVerification indicates the proof does not lead from the leaf to the root.
	ErrBadMerkleVerification = errors.New("cnft: bad merkle verification")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("cnft: required parameter is nil")

	// ErrLeafNotFound indicates the leaf record was not found in the store.
	ErrLeafNotFound = errors.New("cnft: leaf not found")

	// ErrDuplicateLeaf indicates a leaf record for this asset already exists.
	ErrDuplicateLeaf = errors.New("cnft: duplicate leaf")

	// ErrInvalidHash indicates a hash is not 32 bytes.
	ErrInvalidHash = errors.New("cnft: invalid hash")

	// ErrLeafIndexOutOfRange indicates a leaf index beyond the tree capacity.
	ErrLeafIndexOutOfRange = errors.New("cnft: leaf index out of range")

	// ErrInvalidDepth indicates an unsupported tree depth.
	ErrInvalidDepth = errors.New("cnft: invalid tree depth")

	// ErrCreatorCountMismatch indicates creator keys, shares and flags differ in length.
	ErrCreatorCountMismatch = errors.New("cnft: creator count mismatch")

	// ErrAssetIDMismatch indicates the leaf id does not derive from its tree and nonce.
	ErrAssetIDMismatch = errors.New("cnft: asset id mismatch")

	// ErrLeafContentMismatch indicates the leaf hashes do not match its metadata.
	ErrLeafContentMismatch = errors.New("cnft: leaf content mismatch")

	// ErrUnknownSource indicates an unsupported metadata source.
	ErrUnknownSource = errors.New("cnft: unknown metadata source")
)
