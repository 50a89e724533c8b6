package core

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentChecksum returns the hex xxhash64 of content. It identifies a file
// for report caching and in the run history.
func ContentChecksum(content []byte) string {
	digest := xxhash.New()
	digest.Write(content)
	return hex.EncodeToString(digest.Sum(nil))
}
