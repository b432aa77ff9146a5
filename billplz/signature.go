package billplz

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// SignatureField is the form field carrying the X-Signature.
const SignatureField = "x_signature"

// Signature computes the Billplz X-Signature for a set of callback fields:
// each field except x_signature is rendered as key+value, the pieces are
// sorted ascending (case-insensitive), joined with "|" and signed with HMAC-SHA256.
func Signature(params map[string][]string, key string) string {
	pieces := make([]string, 0, len(params))
	for k, values := range params {
		if k == SignatureField {
			continue
		}
		v := ""
		if len(values) > 0 {
			v = values[0]
		}
		pieces = append(pieces, k+v)
	}
	sort.Slice(pieces, func(i, j int) bool {
		return strings.ToLower(pieces[i]) < strings.ToLower(pieces[j])
	})

	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(strings.Join(pieces, "|")))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature reports whether signature matches the fields.
func VerifySignature(params map[string][]string, key, signature string) bool {
	expected := Signature(params, key)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
