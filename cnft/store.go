package cnft

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// LeafRecord is an indexed compressed NFT: its leaf, its position in the
// tree and the proof observed for it.
type LeafRecord struct {
	Tree      solana.PublicKey
	Index     uint32
	Leaf      LeafSchema
	Root      [32]byte
	Proof     [][32]byte
	Metadata  *MetadataArgs // nil when only hashes are known
	UpdatedAt uint64
}

// AssetID returns the id of the indexed asset.
func (r *LeafRecord) AssetID() solana.PublicKey { return r.Leaf.ID }

// LeafStore persists leaf records.
type LeafStore interface {
	// PutLeaf stores a new leaf record.
	PutLeaf(rec *LeafRecord) error

	// UpdateLeaf replaces an existing leaf record.
	UpdateLeaf(rec *LeafRecord) error

	// GetLeaf retrieves a record by asset id.
	GetLeaf(assetID solana.PublicKey) (*LeafRecord, error)

	// GetLeavesByTree returns the records of a tree ordered by leaf index.
	GetLeavesByTree(tree solana.PublicKey) ([]*LeafRecord, error)

	// DeleteLeaf removes a record.
	DeleteLeaf(assetID solana.PublicKey) error

	// ListLeaves returns all stored records.
	ListLeaves() ([]*LeafRecord, error)
}

// MemLeafStore is an in-memory LeafStore.
type MemLeafStore struct {
	mu     sync.RWMutex
	leaves map[solana.PublicKey]*LeafRecord
}

var _ LeafStore = (*MemLeafStore)(nil)

// NewMemLeafStore creates an empty in-memory store.
func NewMemLeafStore() *MemLeafStore {
	return &MemLeafStore{leaves: make(map[solana.PublicKey]*LeafRecord)}
}

// PutLeaf stores a new leaf record.
func (s *MemLeafStore) PutLeaf(rec *LeafRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: leaf record", ErrNilParam)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leaves[rec.AssetID()]; exists {
		return ErrDuplicateLeaf
	}
	s.leaves[rec.AssetID()] = cloneRecord(rec)
	return nil
}

// UpdateLeaf replaces an existing leaf record.
func (s *MemLeafStore) UpdateLeaf(rec *LeafRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: leaf record", ErrNilParam)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leaves[rec.AssetID()]; !exists {
		return ErrLeafNotFound
	}
	s.leaves[rec.AssetID()] = cloneRecord(rec)
	return nil
}

// GetLeaf retrieves a record by asset id.
func (s *MemLeafStore) GetLeaf(assetID solana.PublicKey) (*LeafRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.leaves[assetID]
	if !ok {
		return nil, ErrLeafNotFound
	}
	return cloneRecord(rec), nil
}

// GetLeavesByTree returns the records of a tree ordered by leaf index.
func (s *MemLeafStore) GetLeavesByTree(tree solana.PublicKey) ([]*LeafRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*LeafRecord
	for _, rec := range s.leaves {
		if rec.Tree == tree {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// DeleteLeaf removes a record.
func (s *MemLeafStore) DeleteLeaf(assetID solana.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leaves[assetID]; !ok {
		return ErrLeafNotFound
	}
	delete(s.leaves, assetID)
	return nil
}

// ListLeaves returns all stored records.
func (s *MemLeafStore) ListLeaves() ([]*LeafRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*LeafRecord, 0, len(s.leaves))
	for _, rec := range s.leaves {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func cloneRecord(rec *LeafRecord) *LeafRecord {
	c := *rec
	c.Proof = append([][32]byte(nil), rec.Proof...)
	c.Metadata = rec.Metadata.Clone()
	return &c
}
