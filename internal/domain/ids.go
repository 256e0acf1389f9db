package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID generates an identifier in the form <prefix>-<epoch millis>-<suffix>.
// The random suffix keeps ids unique when several are minted in the same
// millisecond.
func NewID(prefix string) string {
	var b [4]byte
	rand.Read(b[:])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}

// NewSessionID mints a session identifier. Session ids carry no random
// suffix so stored payloads stay compatible with the chat-<millis> format.
func NewSessionID() string {
	return fmt.Sprintf("chat-%d", time.Now().UnixMilli())
}
