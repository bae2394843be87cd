package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// IdentifierLen is the length of an Identifier in bytes.
const IdentifierLen = 32

// Identifier represents a 32-byte unique identifier for an entity, here the
// content hash of a block header.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// MakeID computes the identifier of arbitrary bytes as their SHA2-256 digest.
func MakeID(data []byte) Identifier {
	return Identifier(sha256.Sum256(data))
}

// HexStringToIdentifier converts a hex string to an identifier.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var id Identifier
	n, err := hex.Decode(id[:], []byte(hexString))
	if err != nil {
		return id, err
	}
	if n != IdentifierLen {
		return id, fmt.Errorf("malformed input, expected %d bytes (%d characters), decoded %d", IdentifierLen, IdentifierLen*2, n)
	}
	return id, nil
}

// String returns the base58 representation of the identifier.
func (id Identifier) String() string {
	return base58.Encode(id[:])
}

// Bytes returns the identifier as a byte slice.
func (id Identifier) Bytes() []byte {
	return id[:]
}
