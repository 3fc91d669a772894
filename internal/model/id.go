package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// localIDPrefix tags identifiers minted on-device. Server-assigned ids never
// start with it, so a created-in-cloud record can't be mistaken for a
// pending-local one.
const localIDPrefix = "local-"

// NewLocalID returns a fresh device-local identifier.
func NewLocalID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("model: rand.Read: " + err.Error())
	}
	return localIDPrefix + hex.EncodeToString(b[:])
}

// IsLocalID reports whether id was minted on-device.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
