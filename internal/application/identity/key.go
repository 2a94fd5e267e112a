// Package identity unifies catalog rows that refer to the same real-world
// product across re-uploads. Matching used to be reimplemented per feature
// (cost page, generation, insights) with drifting tie-break rules; this
// package is the single implementation all call sites share.
package identity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Identity key prefixes, in resolution priority order.
const (
	KindSKU  = "sku"
	KindExt  = "ext"
	KindName = "name"
)

// NormalizeName canonicalizes a product title for matching: Unicode NFC,
// internal whitespace collapsed to single spaces, trimmed. Case is preserved;
// only the name key variant lowercases.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// KeyFor computes the canonical identity key for a catalog row, by priority
// SKU first, then external id, then normalized lowercase name.
func KeyFor(sku, externalID, title string) string {
	if s := strings.TrimSpace(sku); s != "" {
		return KindSKU + ":" + s
	}
	if e := strings.TrimSpace(externalID); e != "" {
		return KindExt + ":" + e
	}
	return KindName + ":" + strings.ToLower(NormalizeName(title))
}

// KeyForSold computes the identity key for a sold line item, which carries no
// external id: SKU when present, else normalized lowercase name.
func KeyForSold(sku, name string) string {
	if s := strings.TrimSpace(sku); s != "" {
		return KindSKU + ":" + s
	}
	return KindName + ":" + strings.ToLower(NormalizeName(name))
}

// ParseKey splits an identity key into kind and trimmed value. The value may
// itself contain colons (SKUs sometimes do), so only the first separator
// counts. ok is false for an unknown prefix or empty value.
func ParseKey(key string) (kind, value string, ok bool) {
	kind, value, found := strings.Cut(key, ":")
	if !found {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", false
	}
	switch kind {
	case KindSKU, KindExt, KindName:
		return kind, value, true
	}
	return "", "", false
}
