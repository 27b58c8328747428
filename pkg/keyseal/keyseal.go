// Package keyseal implements the per-assignment key lifecycle and the
// pointer cipher: RSA-OAEP over SHA-256 with a 2048-bit modulus, keys
// serialized in the standard SPKI/PKCS#8 forms so an exported key remains
// importable indefinitely. Only short strings (content identifiers) are ever
// encrypted; arbitrary file bytes never pass through this package.
package keyseal

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

const modulusBits = 2048

// MaxPlaintextLen is the OAEP bound for a 2048-bit modulus with SHA-256:
// k - 2*hLen - 2 bytes.
const MaxPlaintextLen = modulusBits/8 - 2*sha256.Size - 2

// ErrDecryption indicates the ciphertext could not be decrypted with the
// supplied key: wrong key, corrupted ciphertext, or a malformed key export.
// OAEP failure is a hard error, never best-effort plaintext.
var ErrDecryption = errors.New("keyseal: decryption failed")

// ErrPlaintextTooLong indicates the plaintext exceeds the OAEP bound for the
// modulus.
var ErrPlaintextTooLong = errors.New("keyseal: plaintext exceeds OAEP bound")

// KeyPair carries the two serialized halves of a freshly minted assignment
// key. PublicKey is base64 of the PKIX/SPKI export, PrivateKey base64 of the
// PKCS#8 export. The private half must be handed to the caller exactly once
// and never stored, logged, or cached.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// GenerateKeyPair mints a fresh RSA-2048 pair and serializes both halves.
func GenerateKeyPair() (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, modulusBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate key pair: %w", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to export public key: %w", err)
	}

	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to export private key: %w", err)
	}

	return KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(publicDER),
		PrivateKey: base64.StdEncoding.EncodeToString(privateDER),
	}, nil
}

// Encrypt seals a short plaintext under the base64 SPKI public key and
// returns base64 ciphertext. OAEP padding is randomized, so encrypting the
// same plaintext twice yields different ciphertexts.
func Encrypt(plaintext, publicKeyB64 string) (string, error) {
	if len(plaintext) > MaxPlaintextLen {
		return "", ErrPlaintextTooLong
	}

	publicKey, err := importPublicKey(publicKeyB64)
	if err != nil {
		return "", err
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, []byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt pointer: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens base64 ciphertext with the base64 PKCS#8 private key. Any
// mismatch or corruption yields ErrDecryption.
func Decrypt(ciphertextB64, privateKeyB64 string) (string, error) {
	privateKey, err := importPrivateKey(privateKeyB64)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is not valid base64", ErrDecryption)
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, ciphertext, nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plaintext), nil
}

func importPublicKey(b64 string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("public key is not valid base64: %w", err)
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not an RSA key")
	}

	return publicKey, nil
}

func importPrivateKey(b64 string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64", ErrDecryption)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse private key", ErrDecryption)
	}

	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not an RSA key", ErrDecryption)
	}

	return privateKey, nil
}
