package cnft

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Indexer tracks the leaves of one tree account in a local sorted-pair Tree:
// it applies mints and transfers and keeps every stored record's root and
// proof current. Its roots and proofs are only meaningful to VerifyLeaf and
// VerifyRecord; they are not the roots of the on-chain concurrent merkle tree.
type Indexer struct {
	mu    sync.Mutex
	key   solana.PublicKey
	tree  *Tree
	store LeafStore
	log   *slog.Logger
	now   func() time.Time
}

// NewIndexer creates an indexer for the tree account key. A nil logger
// discards output.
func NewIndexer(key solana.PublicKey, tree *Tree, store LeafStore, log *slog.Logger) (*Indexer, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: tree", ErrNilParam)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: leaf store", ErrNilParam)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Indexer{key: key, tree: tree, store: store, log: log, now: time.Now}, nil
}

// Root returns the current root of the mirrored tree.
func (ix *Indexer) Root() [32]byte {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.tree.Root()
}

// Mint appends a new leaf. The nonce, and so the asset id, is the leaf
// index.
func (ix *Indexer) Mint(owner, delegate solana.PublicKey, src MetadataSource, creatorKeys []solana.PublicKey) (*LeafRecord, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	index := ix.tree.next
	if uint64(index) >= ix.tree.Capacity() {
		return nil, fmt.Errorf("%w: tree is full", ErrLeafIndexOutOfRange)
	}
	args, err := MakeArgs(MakeArgsParams{
		Tree:        ix.key,
		Nonce:       uint64(index),
		CreatorKeys: creatorKeys,
		Source:      src,
	})
	if err != nil {
		return nil, err
	}

	rec := &LeafRecord{
		Tree:  ix.key,
		Index: index,
		Leaf:  args.Leaf(owner, delegate),
	}
	if rec.Metadata, err = fullMetadata(src, creatorKeys); err != nil {
		return nil, err
	}
	if err := ix.store.PutLeaf(ix.stamp(rec)); err != nil {
		return nil, err
	}
	if err := ix.tree.Update(index, rec.Leaf.Hash()); err != nil {
		return nil, err
	}
	ix.log.Debug("indexed mint", "asset", rec.Leaf.ID.String(), "index", index)

	if err := ix.refresh(); err != nil {
		return nil, err
	}
	return ix.store.GetLeaf(rec.Leaf.ID)
}

// Transfer changes the owner of an indexed asset and clears its delegate.
func (ix *Indexer) Transfer(assetID, newOwner solana.PublicKey) (*LeafRecord, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rec, err := ix.store.GetLeaf(assetID)
	if err != nil {
		return nil, err
	}
	if rec.Tree != ix.key {
		return nil, fmt.Errorf("%w: asset %s belongs to tree %s", ErrLeafNotFound, assetID, rec.Tree)
	}
	rec.Leaf.Owner = newOwner
	rec.Leaf.Delegate = newOwner
	if err := ix.store.UpdateLeaf(ix.stamp(rec)); err != nil {
		return nil, err
	}
	if err := ix.tree.Update(rec.Index, rec.Leaf.Hash()); err != nil {
		return nil, err
	}
	ix.log.Debug("indexed transfer", "asset", assetID.String(), "owner", newOwner.String())

	if err := ix.refresh(); err != nil {
		return nil, err
	}
	return ix.store.GetLeaf(assetID)
}

// refresh rewrites the root and proof of every record in the tree.
func (ix *Indexer) refresh() error {
	recs, err := ix.store.GetLeavesByTree(ix.key)
	if err != nil {
		return err
	}
	root := ix.tree.Root()
	for _, rec := range recs {
		proof, err := ix.tree.Proof(rec.Index)
		if err != nil {
			return err
		}
		rec.Root = root
		rec.Proof = proof
		if err := ix.store.UpdateLeaf(rec); err != nil {
			return fmt.Errorf("cnft: refresh proof of %s: %w", rec.Leaf.ID, err)
		}
	}
	return nil
}

func (ix *Indexer) stamp(rec *LeafRecord) *LeafRecord {
	rec.UpdatedAt = uint64(ix.now().Unix())
	return rec
}

func fullMetadata(src MetadataSource, creatorKeys []solana.PublicKey) (*MetadataArgs, error) {
	switch s := src.(type) {
	case *MetadataArgs:
		return s.Clone(), nil
	case *CompressedMetadata:
		return s.Expand(creatorKeys)
	}
	return nil, nil
}
