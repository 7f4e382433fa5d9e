package game

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Commitment is a keccak256 digest. The zero value doubles as the
// empty-slot sentinel in RoundState and Match.PrivateCodeHash.
type Commitment [32]byte

// Salt is the 32-byte random blinding value a player keeps secret until
// reveal time.
type Salt [32]byte

// MakeCommitment hashes a choice the way the off-chain client does: the
// choice discriminant as a single byte, followed by the 32-byte salt,
// through keccak256. The packing must stay bit-for-bit stable.
func MakeCommitment(choice Choice, salt Salt) Commitment {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{byte(choice)})
	h.Write(salt[:])
	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

// Verify reports whether (choice, salt) opens this commitment. Wrong choice
// and wrong salt are indistinguishable on purpose.
func (c Commitment) Verify(choice Choice, salt Salt) bool {
	want := MakeCommitment(choice, salt)
	return subtle.ConstantTimeCompare(c[:], want[:]) == 1
}

func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

func (c Commitment) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// HashPrivateCode derives the stored hash for a private-match join code.
func HashPrivateCode(code string) Commitment {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(code))
	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

var errBadHex = errors.New("invalid_hex")

// ParseCommitment decodes a 32-byte hex string, with or without 0x prefix.
func ParseCommitment(s string) (Commitment, error) {
	var c Commitment
	b, err := decodeHex32(s)
	if err != nil {
		return c, err
	}
	copy(c[:], b)
	return c, nil
}

// ParseSalt decodes a 32-byte hex string, with or without 0x prefix.
func ParseSalt(s string) (Salt, error) {
	var out Salt
	b, err := decodeHex32(s)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// NewSalt draws a fresh random salt. Used by clients and tests; the contract
// itself never generates salts.
func NewSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return s, err
	}
	return s, nil
}

func (s Salt) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

func decodeHex32(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return nil, errBadHex
	}
	return b, nil
}
