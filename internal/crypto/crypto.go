// Package crypto provides HMAC signing utilities for webhook verification.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingSecret    = errors.New("signing secret is required")
	ErrMissingSignature = errors.New("signature is required")
	ErrBadSignature     = errors.New("signature mismatch")
)

// Sign computes the hex-encoded HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks a hex-encoded HMAC-SHA256 signature over payload in
// constant time.
func Verify(secret string, payload []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	expected, err := Sign(secret, payload)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// SignFields computes the HMAC over the concatenation of key+value pairs
// sorted by key. This is the HitPay V1 webhook scheme: every non-hmac form
// field participates.
func SignFields(secret string, fields map[string]string) (string, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(fields[key])
	}
	return Sign(secret, []byte(b.String()))
}

// VerifyFields checks a signature produced by SignFields.
func VerifyFields(secret string, fields map[string]string, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	expected, err := SignFields(secret, fields)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
