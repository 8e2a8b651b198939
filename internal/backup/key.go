package backup

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	keyCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	keySegments = 4
	segmentLen  = 4
)

// GenerateKey produces an access key of four hyphen-joined groups of four
// mixed-case alphanumeric characters, e.g. "aB3x-9Ykq-Tr2m-Zw8c". The format
// is deliberately short for manual transcription; it is the sole credential
// for the stored blob and is not cryptographically strong.
func GenerateKey() (string, error) {
	segments := make([]string, 0, keySegments)
	for i := 0; i < keySegments; i++ {
		var b strings.Builder
		for j := 0; j < segmentLen; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyCharset))))
			if err != nil {
				return "", err
			}
			b.WriteByte(keyCharset[n.Int64()])
		}
		segments = append(segments, b.String())
	}
	return strings.Join(segments, "-"), nil
}
