package hashing

import (
	"slices"
	"strings"
)

// SettlementMap maps a trade identifier to its previously issued trade hash.
type SettlementMap map[string]string

// Canonical joins the trade hashes ordered by trade identifier. Keys do not appear in
// the output.
func (m SettlementMap) Canonical() string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(m[id])
	}
	return b.String()
}

// SettlementHash binds a settlement to an exact set of already hashed trades.
func SettlementHash(m SettlementMap) string {
	return SHA256Hex(m.Canonical())
}
