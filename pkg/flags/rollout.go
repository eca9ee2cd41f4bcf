package flags

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// rolloutDivisor is 15 hex digits of all-F (2^60 - 1). Together with the
// 15-digit digest truncation below it makes the bucketing value bit-for-bit
// reproducible across SDK implementations; neither constant is incidental.
const rolloutDivisor = 0xFFFFFFFFFFFFFFF

// enabledForRollout computes the deterministic hash bucket for a
// (key, distinctID) pair and checks it against the rollout percentage.
//
// A zero percentage means no explicit rollout limit was set, which is
// "fully rolled out", not "off". The subject's bucket is the first 15 hex
// digits of SHA-1("<key>.<distinctID>") parsed base-16 and normalized to
// [0, 1); the flag is on iff that value is <= percentage/100.
func enabledForRollout(key, distinctID string, percentage float64) bool {
	if percentage == 0 {
		return true
	}

	sum := sha1.Sum([]byte(key + "." + distinctID))
	digest := hex.EncodeToString(sum[:])

	// 15 hex digits always fit in a uint64, so the parse cannot fail.
	bucket, _ := strconv.ParseUint(digest[:15], 16, 64)

	return float64(bucket)/float64(rolloutDivisor) <= percentage/100
}
