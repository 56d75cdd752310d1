package cnft

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"go.etcd.io/bbolt"
)

var (
	bucketLeaves     = []byte("leaves")
	bucketTreeLeaves = []byte("tree_leaves")
)

// BoltLeafStore persists leaf records in bbolt. Records are keyed by asset
// id, with a secondary tree || index key for ordered per-tree scans.
type BoltLeafStore struct {
	db *bbolt.DB
}

var _ LeafStore = (*BoltLeafStore)(nil)

// OpenBoltLeafStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltLeafStore(dbPath string) (*BoltLeafStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("cnft: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cnft: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLeaves, bucketTreeLeaves} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cnft: create buckets: %w", err)
	}
	return &BoltLeafStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltLeafStore) Close() error { return s.db.Close() }

func treeIndexKey(tree solana.PublicKey, index uint32) []byte {
	k := make([]byte, 0, 36)
	k = append(k, tree[:]...)
	return binary.BigEndian.AppendUint32(k, index)
}

// boltRecord is the stored form of a LeafRecord. Metadata is kept in its
// Borsh encoding: gob flattens pointers and would turn Some(0) into None.
type boltRecord struct {
	Tree      solana.PublicKey
	Index     uint32
	Leaf      LeafSchema
	Root      [32]byte
	Proof     [][32]byte
	Metadata  []byte
	UpdatedAt uint64
}

func encodeRecord(rec *LeafRecord) ([]byte, error) {
	br := boltRecord{
		Tree:      rec.Tree,
		Index:     rec.Index,
		Leaf:      rec.Leaf,
		Root:      rec.Root,
		Proof:     rec.Proof,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Metadata != nil {
		data, err := SerializeMetadata(rec.Metadata)
		if err != nil {
			return nil, err
		}
		br.Metadata = data
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(br); err != nil {
		return nil, fmt.Errorf("encode leaf record: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*LeafRecord, error) {
	var br boltRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&br); err != nil {
		return nil, fmt.Errorf("decode leaf record: %w", err)
	}
	rec := &LeafRecord{
		Tree:      br.Tree,
		Index:     br.Index,
		Leaf:      br.Leaf,
		Root:      br.Root,
		Proof:     br.Proof,
		UpdatedAt: br.UpdatedAt,
	}
	if len(br.Metadata) > 0 {
		m, err := DeserializeMetadata(br.Metadata)
		if err != nil {
			return nil, err
		}
		rec.Metadata = m
	}
	return rec, nil
}

// PutLeaf stores a new leaf record.
func (s *BoltLeafStore) PutLeaf(rec *LeafRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: leaf record", ErrNilParam)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		id := rec.AssetID()
		if tx.Bucket(bucketLeaves).Get(id[:]) != nil {
			return ErrDuplicateLeaf
		}
		return putRecord(tx, rec)
	})
}

// UpdateLeaf replaces an existing leaf record.
func (s *BoltLeafStore) UpdateLeaf(rec *LeafRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: leaf record", ErrNilParam)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		id := rec.AssetID()
		data := tx.Bucket(bucketLeaves).Get(id[:])
		if data == nil {
			return ErrLeafNotFound
		}
		old, err := decodeRecord(data)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketTreeLeaves).Delete(treeIndexKey(old.Tree, old.Index)); err != nil {
			return fmt.Errorf("cnft: delete tree index: %w", err)
		}
		return putRecord(tx, rec)
	})
}

func putRecord(tx *bbolt.Tx, rec *LeafRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	id := rec.AssetID()
	if err := tx.Bucket(bucketLeaves).Put(id[:], data); err != nil {
		return fmt.Errorf("cnft: put leaf: %w", err)
	}
	if err := tx.Bucket(bucketTreeLeaves).Put(treeIndexKey(rec.Tree, rec.Index), id[:]); err != nil {
		return fmt.Errorf("cnft: put tree index: %w", err)
	}
	return nil
}

// GetLeaf retrieves a record by asset id.
func (s *BoltLeafStore) GetLeaf(assetID solana.PublicKey) (*LeafRecord, error) {
	var rec *LeafRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketLeaves).Get(assetID[:])
		if data == nil {
			return ErrLeafNotFound
		}
		var err error
		rec, err = decodeRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetLeavesByTree returns the records of a tree ordered by leaf index.
func (s *BoltLeafStore) GetLeavesByTree(tree solana.PublicKey) ([]*LeafRecord, error) {
	var out []*LeafRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		leaves := tx.Bucket(bucketLeaves)
		c := tx.Bucket(bucketTreeLeaves).Cursor()
		prefix := tree[:]
		for k, id := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, id = c.Next() {
			data := leaves.Get(id)
			if data == nil {
				continue
			}
			rec, err := decodeRecord(data)
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteLeaf removes a record.
func (s *BoltLeafStore) DeleteLeaf(assetID solana.PublicKey) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketLeaves)
		data := b.Get(assetID[:])
		if data == nil {
			return ErrLeafNotFound
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketTreeLeaves).Delete(treeIndexKey(rec.Tree, rec.Index)); err != nil {
			return fmt.Errorf("cnft: delete tree index: %w", err)
		}
		return b.Delete(assetID[:])
	})
}

// ListLeaves returns all stored records.
func (s *BoltLeafStore) ListLeaves() ([]*LeafRecord, error) {
	var out []*LeafRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLeaves).ForEach(func(_, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

