package nameseed

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/seed-labs/nameseed/schema"
	"golang.org/x/net/idna"
)

// lookup-style idna profile, non-transitional, underscores allowed
var namePrep = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.Transitional(false),
)

// NormalizeName canonicalizes a dotted name. Pure; the same input always
// yields the same output or the same failure.
func NormalizeName(raw string) (string, error) {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", schema.ErrInvalidName
	}
	name, err := namePrep.ToUnicode(raw)
	if err != nil {
		return "", schema.ErrInvalidName
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return "", schema.ErrInvalidName
		}
	}
	return name, nil
}

// NormalizeLabel canonicalizes a single subdomain label. Separators are
// rejected: a subdomain is exactly one level below its domain.
func NormalizeLabel(raw string) (string, error) {
	if strings.Contains(raw, ".") {
		return "", schema.ErrInvalidName
	}
	return NormalizeName(raw)
}

// NameHash computes the ENS node of an already-normalized name as 0x-hex.
func NameHash(name string) string {
	node := make([]byte, 32)
	if name != "" {
		labels := strings.Split(name, ".")
		for i := len(labels) - 1; i >= 0; i-- {
			labelHash := crypto.Keccak256([]byte(labels[i]))
			node = crypto.Keccak256(node, labelHash)
		}
	}
	return hexutil.Encode(node)
}
