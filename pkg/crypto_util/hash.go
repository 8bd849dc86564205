package crypto_util

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// FingerprintContext is the BLAKE3 key-derivation context for submission
// fingerprints. Changing it changes every fingerprint, so pending duplicates
// submitted across the change are no longer recognised.
const FingerprintContext = "wozamali-core 2024-06 collection submission fingerprint"

// FingerprintSize is the digest length in bytes; hex encoded it fills the
// VARCHAR(64) collections.fingerprint column.
const FingerprintSize = 32

// Fingerprint 计算回收单内容指纹 (BLAKE3 derive-key 模式)。
// canonical must already be a stable encoding of the submission.
func Fingerprint(canonical []byte) string {
	out := make([]byte, FingerprintSize)
	blake3.DeriveKey(out, FingerprintContext, canonical)
	return hex.EncodeToString(out)
}
