package app

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MinSigningKeyBytes is the smallest HMAC-SHA256 key accepted at startup.
const MinSigningKeyBytes = 32

// KeyEncoding names how a configured secret was turned into key bytes.
type KeyEncoding string

const (
	KeyEncodingHex    KeyEncoding = "hex"
	KeyEncodingBase64 KeyEncoding = "base64"
	KeyEncodingRaw    KeyEncoding = "raw"
)

var errEmptyKey = errors.New("key value is empty")

// ParseKey decodes a secret into raw key bytes.
//
// A "hex:", "base64:" or "raw:" prefix forces that encoding and a malformed
// value is an error. Unprefixed values are tried as hex, then base64 with and
// without padding, and are otherwise used verbatim.
func ParseKey(value string) ([]byte, KeyEncoding, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, "", errEmptyKey
	}

	if prefix, rest, ok := strings.Cut(v, ":"); ok {
		switch enc := KeyEncoding(strings.ToLower(prefix)); enc {
		case KeyEncodingHex:
			key, err := hex.DecodeString(rest)
			if err != nil {
				return nil, "", fmt.Errorf("decode hex key: %w", err)
			}
			return nonEmpty(key, enc)
		case KeyEncodingBase64:
			key, err := decodeBase64(rest)
			if err != nil {
				return nil, "", fmt.Errorf("decode base64 key: %w", err)
			}
			return nonEmpty(key, enc)
		case KeyEncodingRaw:
			return nonEmpty([]byte(rest), enc)
		}
	}

	if len(v)%2 == 0 {
		if key, err := hex.DecodeString(v); err == nil {
			return key, KeyEncodingHex, nil
		}
	}
	if key, err := decodeBase64(v); err == nil {
		return key, KeyEncodingBase64, nil
	}
	return []byte(v), KeyEncodingRaw, nil
}

// DecodeKey is ParseKey without the detected encoding.
func DecodeKey(value string) ([]byte, error) {
	key, _, err := ParseKey(value)
	return key, err
}

// KeyByteLength returns the decoded length of a secret, or zero when it cannot be decoded.
func KeyByteLength(value string) int {
	key, err := DecodeKey(value)
	if err != nil {
		return 0
	}
	return len(key)
}

func decodeBase64(v string) ([]byte, error) {
	if key, err := base64.StdEncoding.DecodeString(v); err == nil {
		return key, nil
	}
	return base64.RawStdEncoding.DecodeString(v)
}

func nonEmpty(key []byte, enc KeyEncoding) ([]byte, KeyEncoding, error) {
	if len(key) == 0 {
		return nil, "", errEmptyKey
	}
	return key, enc, nil
}
