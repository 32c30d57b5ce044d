package schema

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

const idLength = 24

// AssignID derives an element identifier from the generation time and the element's
// primary content: the first 24 hex chars of sha1("<unix seconds>:<content>").
// It is an identifier scheme, not an integrity check. variant does not enter the digest.
func AssignID(variant Variant, content string, at time.Time) string {
	sum := sha1.Sum([]byte(strconv.FormatInt(at.Unix(), 10) + ":" + content))
	return hex.EncodeToString(sum[:])[:idLength]
}

// Stamp replaces el's identifier with one derived from its content at time at.
func Stamp(el Element, at time.Time) Element {
	return WithID(el, AssignID(el.Variant(), PrimaryContent(el), at))
}
