// Package fingerprint computes the three content hashes that drive
// change classification: source content hash, interface hash, and
// design-body hash. All persisted hashes are SHA-256 hex digests; an
// xxhash fast hash is available for cheap in-memory equality checks
// before paying for a full digest.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// Content returns the hex digest over raw file bytes. Always computable.
func Content(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fast returns an xxhash over data (~0.5ns/byte equality pre-check).
// Never persisted; used to short-circuit comparisons where a SHA-256
// recompute would be wasted on obviously-equal content.
func Fast(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Interface returns the hex digest over the canonical encoding of a
// skeleton. Callers pass nil when no analyzer exists for the file's
// language; the result is then "" (absent), not an error.
func Interface(sk *skeleton.InterfaceSkeleton) string {
	if sk == nil {
		return ""
	}
	return Content(skeleton.Render(sk))
}

// DesignBody returns the hex digest of a design document's body with its
// footer already stripped. Trailing newlines are trimmed first so that
// footer-only rewrites never change this value.
func DesignBody(body []byte) string {
	return Content(bytes.TrimRight(body, "\r\n"))
}

// DesignBodyFast is the xxhash counterpart of DesignBody, used by the
// post-generation race recheck to compare an on-disk body against a
// snapshot without recomputing SHA-256 in the common unchanged case.
func DesignBodyFast(body []byte) uint64 {
	return Fast(bytes.TrimRight(body, "\r\n"))
}
