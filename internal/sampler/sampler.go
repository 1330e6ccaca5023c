// Package sampler implements the Sampler (C2): deterministic, seeded
// selection of a percentage of a review queue so repeated runs against the
// same session_id reproduce the same sample.
package sampler

import (
	"math/rand"
	"sort"

	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// Sample returns a deterministic pseudo-random subset of pairs sized to
// percentage (0, 100], seeded from sessionID so the same session always
// samples the same subset. k = max(1, round(N·p/100)) handles are drawn
// without replacement. When percentage is 100, input ordering is preserved;
// otherwise the subset is ordered by ascending identifier hash to reduce
// positional bias (§4.2).
func Sample(pairs []model.CodePair, percentage float64, sessionID string) []model.CodePair {
	if percentage <= 0 || len(pairs) == 0 {
		return nil
	}
	if percentage >= 100 {
		out := make([]model.CodePair, len(pairs))
		copy(out, pairs)
		return out
	}

	n := int(float64(len(pairs))*percentage/100.0 + 0.5)
	if n < 1 {
		n = 1
	}
	if n > len(pairs) {
		n = len(pairs)
	}

	rng := rand.New(rand.NewSource(seedFromString(sessionID)))
	indices := rng.Perm(len(pairs))[:n]

	out := make([]model.CodePair, n)
	for i, idx := range indices {
		out[i] = pairs[idx]
	}
	sort.Slice(out, func(i, j int) bool {
		return identifierHash(out[i].Identifier) < identifierHash(out[j].Identifier)
	})
	return out
}

// identifierHash is the FNV-1a hash of a handle's identifier, used to order
// a sampled subset deterministically regardless of draw order.
func identifierHash(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// seedFromString derives a deterministic int64 seed from a session id via
// FNV-1a, so two Sample calls with the same id and input always agree.
func seedFromString(s string) int64 {
	return int64(identifierHash(s) &^ (1 << 63)) // keep it a valid, non-negative rand seed
}
