// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"context"
	"sort"
)

const NoLimit = -1

// ProofsBuf holds finality proofs ordered by target header number.
type ProofsBuf struct {
	proofs []FinalityProof
}

func NewProofsBuf(proofs []FinalityProof) *ProofsBuf {
	return &ProofsBuf{proofs: proofs}
}

func (b *ProofsBuf) Proofs() []FinalityProof {
	return b.proofs
}

func (b *ProofsBuf) Len() int {
	return len(b.proofs)
}

// Last returns the proof of the highest header.
func (b *ProofsBuf) Last() (FinalityProof, bool) {
	if len(b.proofs) == 0 {
		return FinalityProof{}, false
	}
	return b.proofs[len(b.proofs)-1], true
}

// Fill moves every proof currently available in the stream into the buffer without blocking.
func (b *ProofsBuf) Fill(ctx context.Context, stream *ProofsStream) error {
	for {
		proof, ok, err := stream.TryNext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		last, hasLast := b.Last()
		if hasLast && proof.TargetHeaderNumber <= last.TargetHeaderNumber {
			continue
		}
		b.proofs = append(b.proofs, proof)
	}
}

// Prune removes proofs of headers up to and including until, then trims the oldest proofs
// so at most maxLen remain. NoLimit, or any other negative maxLen, disables trimming.
func (b *ProofsBuf) Prune(until uint64, maxLen int) {
	index := sort.Search(len(b.proofs), func(i int) bool {
		return b.proofs[i].TargetHeaderNumber > until
	})
	b.proofs = b.proofs[index:]

	if maxLen >= 0 && len(b.proofs) > maxLen {
		b.proofs = b.proofs[len(b.proofs)-maxLen:]
	}
}
