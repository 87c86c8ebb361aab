// Package types defines the POD2 domain model shared across the prover:
// origins, anchored keys, values, statements, and deduction chains.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// PodClass distinguishes how a POD was produced.
type PodClass uint8

const (
	// ClassSigned marks a POD backed by a signature.
	ClassSigned PodClass = iota
	// ClassMain marks a POD backed by a main proof.
	ClassMain
)

// String returns the lowercase class name.
func (c PodClass) String() string {
	switch c {
	case ClassSigned:
		return "signed"
	case ClassMain:
		return "main"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ParsePodClass maps a class name back to its PodClass. The empty string
// defaults to signed.
func ParsePodClass(s string) (PodClass, error) {
	switch s {
	case "signed", "":
		return ClassSigned, nil
	case "main":
		return ClassMain, nil
	default:
		return 0, fmt.Errorf("unknown pod class %q", s)
	}
}

// PodID is the commitment identifier of a POD.
type PodID [32]byte

// HashString derives a PodID from an arbitrary string.
func HashString(s string) PodID {
	return PodID(sha256.Sum256([]byte(s)))
}

// String returns the full hex form of the ID.
func (id PodID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns an abbreviated hex form for display.
func (id PodID) Short() string {
	return hex.EncodeToString(id[:4])
}

// ParsePodID decodes a full hex PodID.
func ParsePodID(s string) (PodID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return PodID{}, fmt.Errorf("invalid pod id %q: %w", s, err)
	}
	if len(raw) != len(PodID{}) {
		return PodID{}, fmt.Errorf("invalid pod id %q: want %d bytes, got %d", s, len(PodID{}), len(raw))
	}
	var id PodID
	copy(id[:], raw)
	return id, nil
}

// Origin identifies the POD a key is anchored in.
type Origin struct {
	Class PodClass
	Pod   PodID
}

// SignedOrigin builds a signed-class origin from a pod name.
func SignedOrigin(name string) Origin {
	return Origin{Class: ClassSigned, Pod: HashString(name)}
}

// MainOrigin builds a main-class origin from a pod name.
func MainOrigin(name string) Origin {
	return Origin{Class: ClassMain, Pod: HashString(name)}
}

func (o Origin) String() string {
	return fmt.Sprintf("%s:%s", o.Class, o.Pod.Short())
}

// AnchoredKey references a value slot inside a committed POD.
type AnchoredKey struct {
	Origin Origin
	Key    string
}

// At builds an anchored key on a signed origin; the common case in tests
// and examples.
func At(pod, key string) AnchoredKey {
	return AnchoredKey{Origin: SignedOrigin(pod), Key: key}
}

// String shows the key part only; origins are commitments and unreadable
// in proof output.
func (ak AnchoredKey) String() string {
	return ak.Key
}
