package cnft

import "fmt"

// VerifyRecord checks an indexed leaf end to end:
//  1. the asset id derives from the record's tree and nonce
//  2. the data and creator hashes match the stored metadata, when present
//  3. the proof leads from the leaf hash to the recorded root
func VerifyRecord(rec *LeafRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: leaf record", ErrNilParam)
	}

	id, err := AssetID(rec.Tree, rec.Leaf.Nonce)
	if err != nil {
		return err
	}
	if id != rec.Leaf.ID {
		return fmt.Errorf("%w: leaf has %s, derived %s", ErrAssetIDMismatch, rec.Leaf.ID, id)
	}

	if rec.Metadata != nil {
		content, err := ComputeLeafContentHash(rec.Metadata, nil)
		if err != nil {
			return err
		}
		if content.DataHash != rec.Leaf.DataHash {
			return fmt.Errorf("%w: data hash", ErrLeafContentMismatch)
		}
		if content.CreatorHash != rec.Leaf.CreatorHash {
			return fmt.Errorf("%w: creator hash", ErrLeafContentMismatch)
		}
	}

	return VerifyLeaf(rec.Root, rec.Leaf.Hash(), rec.Proof)
}
