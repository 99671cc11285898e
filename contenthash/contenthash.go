// Package contenthash converts human-readable content pointer URIs into the
// multicodec-tagged binary form stored on name records, and back.
//
// The binary layout is a uvarint namespace code followed by a
// namespace-specific payload (a binary CID for the content-addressed
// namespaces, raw bytes for the rest). The canonical textual form of an
// encoded value is its 0x-prefixed lowercase hex string.
package contenthash

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/multiformats/go-varint"
)

var (
	ErrInvalid      = errors.New("invalid_content_hash")
	ErrUnknownCodec = errors.New("unknown_content_codec")
)

// multicodec namespace codes, see the multiformats codec table
const (
	NsIPFS    = uint64(0xe3)
	NsSwarm   = uint64(0xe4)
	NsIPNS    = uint64(0xe5)
	NsOnion   = uint64(0x01bc)
	NsOnion3  = uint64(0x01bd)
	NsSkynet  = uint64(0xb19910)
	NsArweave = uint64(0xb29910)

	swarmManifestCodec = uint64(0xfa)
)

// strict payload length gates, in characters of the URI identifier part
const (
	onionIdLen   = 16
	onion3IdLen  = 56
	skynetIdLen  = 46
	arweaveIdLen = 43
	swarmHexLen  = 64
)

// Encode converts a content pointer URI into its binary form. An empty
// input is the legal "no pointer" value and encodes to nil. A 0x-hex input
// that already carries a known namespace code is passed through unchanged.
func Encode(uri string) ([]byte, error) {
	if uri == "" {
		return nil, nil
	}
	if strings.HasPrefix(uri, "0x") {
		return decodeCanonicalHex(uri)
	}

	idx := strings.Index(uri, "://")
	if idx < 0 {
		return nil, ErrInvalid
	}
	scheme, id := uri[:idx], uri[idx+3:]
	// tolerate a trailing path separator from copy-pasted gateway urls
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		return nil, ErrInvalid
	}

	switch scheme {
	case "ipfs":
		return encodeIpfs(id)
	case "ipns":
		return encodeIpns(id)
	case "bzz":
		return encodeSwarm(id)
	case "onion":
		if len(id) != onionIdLen {
			return nil, ErrInvalid
		}
		return append(varint.ToUvarint(NsOnion), []byte(id)...), nil
	case "onion3":
		if len(id) != onion3IdLen {
			return nil, ErrInvalid
		}
		return append(varint.ToUvarint(NsOnion3), []byte(id)...), nil
	case "sia":
		if len(id) != skynetIdLen {
			return nil, ErrInvalid
		}
		payload, err := base64.RawURLEncoding.DecodeString(id)
		if err != nil {
			return nil, ErrInvalid
		}
		return append(varint.ToUvarint(NsSkynet), payload...), nil
	case "arweave", "ar":
		if len(id) != arweaveIdLen {
			return nil, ErrInvalid
		}
		payload, err := base64.RawURLEncoding.DecodeString(id)
		if err != nil {
			return nil, ErrInvalid
		}
		return append(varint.ToUvarint(NsArweave), payload...), nil
	}
	return nil, ErrInvalid
}

// EncodeToHex is Encode rendered in the canonical 0x-hex textual form.
// The empty "no pointer" value renders as "".
func EncodeToHex(uri string) (string, error) {
	b, err := Encode(uri)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	return "0x" + hex.EncodeToString(b), nil
}

// Decode converts an encoded content hash back to its canonical URI form.
func Decode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	code, n, err := varint.FromUvarint(b)
	if err != nil {
		return "", ErrInvalid
	}
	payload := b[n:]
	if len(payload) == 0 {
		return "", ErrInvalid
	}

	switch code {
	case NsIPFS:
		c, err := cid.Cast(payload)
		if err != nil {
			return "", ErrInvalid
		}
		s, err := c.StringOfBase(multibase.Base32)
		if err != nil {
			return "", ErrInvalid
		}
		return "ipfs://" + s, nil
	case NsIPNS:
		return decodeIpns(payload)
	case NsSwarm:
		return decodeSwarm(payload)
	case NsOnion:
		if len(payload) != onionIdLen {
			return "", ErrInvalid
		}
		return "onion://" + string(payload), nil
	case NsOnion3:
		if len(payload) != onion3IdLen {
			return "", ErrInvalid
		}
		return "onion3://" + string(payload), nil
	case NsSkynet:
		return "sia://" + base64.RawURLEncoding.EncodeToString(payload), nil
	case NsArweave:
		return "ar://" + base64.RawURLEncoding.EncodeToString(payload), nil
	}
	return "", ErrUnknownCodec
}

// DecodeHex decodes the canonical 0x-hex textual form.
func DecodeHex(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	b, err := decodeCanonicalHex(s)
	if err != nil {
		return "", err
	}
	return Decode(b)
}

func decodeCanonicalHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, ErrInvalid
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil || len(b) == 0 {
		return nil, ErrInvalid
	}
	code, n, err := varint.FromUvarint(b)
	if err != nil || len(b) == n {
		return nil, ErrInvalid
	}
	switch code {
	case NsIPFS, NsIPNS, NsSwarm, NsOnion, NsOnion3, NsSkynet, NsArweave:
		return b, nil
	}
	return nil, ErrUnknownCodec
}

func encodeIpfs(id string) ([]byte, error) {
	c, err := cid.Decode(id)
	if err != nil {
		return nil, ErrInvalid
	}
	if c.Version() == 0 {
		c = cid.NewCidV1(cid.DagProtobuf, c.Hash())
	}
	return append(varint.ToUvarint(NsIPFS), c.Bytes()...), nil
}

func encodeIpns(id string) ([]byte, error) {
	// an ipns pointer is either a peer-id style CID or a dnslink name;
	// names are wrapped in an identity multihash so they survive the
	// round trip losslessly
	c, err := cid.Decode(id)
	if err != nil {
		mh, err := multihash.Sum([]byte(id), multihash.IDENTITY, -1)
		if err != nil {
			return nil, ErrInvalid
		}
		c = cid.NewCidV1(cid.Libp2pKey, mh)
	} else if c.Version() == 0 {
		c = cid.NewCidV1(cid.Libp2pKey, c.Hash())
	}
	return append(varint.ToUvarint(NsIPNS), c.Bytes()...), nil
}

func decodeIpns(payload []byte) (string, error) {
	c, err := cid.Cast(payload)
	if err != nil {
		return "", ErrInvalid
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return "", ErrInvalid
	}
	if dec.Code == multihash.IDENTITY {
		return "ipns://" + string(dec.Digest), nil
	}
	s, err := c.StringOfBase(multibase.Base36)
	if err != nil {
		return "", ErrInvalid
	}
	return "ipns://" + s, nil
}

func encodeSwarm(id string) ([]byte, error) {
	if len(id) != swarmHexLen {
		return nil, ErrInvalid
	}
	digest, err := hex.DecodeString(id)
	if err != nil {
		return nil, ErrInvalid
	}
	mh, err := multihash.Encode(digest, multihash.KECCAK_256)
	if err != nil {
		return nil, ErrInvalid
	}
	c := cid.NewCidV1(swarmManifestCodec, mh)
	return append(varint.ToUvarint(NsSwarm), c.Bytes()...), nil
}

func decodeSwarm(payload []byte) (string, error) {
	c, err := cid.Cast(payload)
	if err != nil {
		return "", ErrInvalid
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil || dec.Code != multihash.KECCAK_256 {
		return "", ErrInvalid
	}
	return "bzz://" + hex.EncodeToString(dec.Digest), nil
}
