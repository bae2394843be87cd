package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeIDDeterministic(t *testing.T) {
	id1 := MakeID([]byte("we are one blood"))
	id2 := MakeID([]byte("we are one blood"))
	id3 := MakeID([]byte("we are two bloods"))
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestHexStringToIdentifier(t *testing.T) {
	type testcase struct {
		hex         string
		expectError string
	}

	cases := []testcase{{
		// non-hex characters
		hex:         "123456789012345678901234567890123456789012345678901234567890123z",
		expectError: "encoding/hex: invalid byte: U+007A 'z'",
	}, {
		// too short
		hex:         "1234",
		expectError: "malformed input, expected 32 bytes (64 characters), decoded 2",
	}, {
		// just right
		hex: "0123456789012345678901234567890123456789012345678901234567890123",
	}}

	for _, tcase := range cases {
		id, err := HexStringToIdentifier(tcase.hex)
		if tcase.expectError != "" {
			assert.EqualError(t, err, tcase.expectError)
			continue
		}
		require.NoError(t, err)
		assert.NotEqual(t, ZeroID, id)
	}
}

func TestIdentifierStringBase58(t *testing.T) {
	// the zero identifier encodes to 32 base58 "1" digits, matching the
	// conventional display of an all-zero 32-byte hash
	assert.Equal(t, "11111111111111111111111111111111", ZeroID.String())
	assert.NotEmpty(t, MakeID([]byte{123}).String())
}
