// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof

import (
	"fmt"
	"sync"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
)

// StateTrie is an in-memory Merkle-Patricia trie holding chain state.
type StateTrie struct {
	lock sync.RWMutex
	trie *trie.Trie
}

func NewStateTrie() *StateTrie {
	return &StateTrie{
		trie: trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil)),
	}
}

// Update sets the value under key. An empty value removes the key.
func (t *StateTrie) Update(key []byte, value []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.trie.Update(key, value)
}

func (t *StateTrie) Delete(key []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.trie.Delete(key)
}

func (t *StateTrie) Get(key []byte) ([]byte, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.trie.Get(key)
}

func (t *StateTrie) Root() types.Hash {
	t.lock.Lock()
	defer t.lock.Unlock()

	return types.Hash(t.trie.Hash())
}

// Snapshot returns an independent copy of the trie. Later updates of either trie are not
// visible in the other one.
func (t *StateTrie) Snapshot() *StateTrie {
	t.lock.Lock()
	defer t.lock.Unlock()

	return &StateTrie{trie: t.trie.Copy()}
}

// Prove returns the union of trie nodes proving every key, present or absent.
func (t *StateTrie) Prove(keys ...[]byte) (StorageProof, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	db := memorydb.New()
	for _, key := range keys {
		err := t.trie.Prove(key, db)
		if err != nil {
			return nil, fmt.Errorf("failed to prove key %x: %w", key, err)
		}
	}

	it := db.NewIterator(nil, nil)
	defer it.Release()

	nodes := make(StorageProof, 0)
	for it.Next() {
		nodes = append(nodes, common.CopyBytes(it.Value()))
	}
	return nodes, it.Error()
}

// MPTBackend verifies reads against proofs produced by StateTrie.
type MPTBackend struct{}

func NewMPTBackend() *MPTBackend {
	return &MPTBackend{}
}

func (b *MPTBackend) Read(root types.Hash, proof StorageProof, key []byte) ([]byte, error) {
	if len(proof) == 0 {
		return nil, fmt.Errorf("no trie nodes provided")
	}

	db := memorydb.New()
	for _, node := range proof {
		err := db.Put(crypto.Keccak256(node), node)
		if err != nil {
			return nil, err
		}
	}
	return trie.VerifyProof(common.Hash(root), key, db)
}
