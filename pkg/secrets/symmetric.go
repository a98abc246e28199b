package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const nonceSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('T')

// KeySize is the required length of the process data key in bytes.
const KeySize = 32

// DecryptionError reports a token that was produced with a different key
// or has been tampered with. The owning account must be treated as
// requiring re-authentication; the error is never a process fault.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %v", e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// Cipher performs authenticated encryption of opaque byte blobs with the
// process-wide data key. Tokens are opaque to all callers.
type Cipher interface {
	Encrypt(aad, plaintext []byte) ([]byte, error)
	Decrypt(aad, token []byte) ([]byte, error)
}

type Symmetric struct {
	aesgcm cipher.AEAD
}

// NewSymmetric builds a Cipher from a 32-byte data key.
func NewSymmetric(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("data key must be %d bytes, got %d", KeySize, len(key))
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// GenerateKey produces a new random data key suitable for process
// configuration.
func GenerateKey() ([]byte, error) {
	return RandomBytes(KeySize)
}

func RandomNonce() ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	return RandomBytes(nonceSize)
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

func (s Symmetric) Encrypt(aad, plaintext []byte) ([]byte, error) {
	nonce, err := RandomNonce()
	if err != nil {
		return nil, err
	}

	return s.encrypt(aad, plaintext, nonce)
}

func (s Symmetric) encrypt(aad, plaintext, nonce []byte) ([]byte, error) {
	if len(nonce) < nonceSize {
		return nil, errors.New("nonce size is too short")
	}

	sealed := s.aesgcm.Seal(nil, nonce, plaintext, aad)
	return packToken(sealed, nonce), nil
}

func (s Symmetric) Decrypt(aad, token []byte) ([]byte, error) {
	ciphertext, nonce, err := unpackToken(token)
	if err != nil {
		return nil, &DecryptionError{Err: err}
	}

	plaintext, err := s.aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, &DecryptionError{Err: err}
	}
	return plaintext, nil
}

// Token layout: magic byte, GCM tag, nonce, ciphertext.
func packToken(sealed []byte, nonce []byte) []byte {
	nonce = nonce[:nonceSize]

	tagStart := len(sealed) - tagSize
	tag := sealed[tagStart:]
	ciphertext := sealed[:tagStart]

	token := make([]byte, 1+tagSize+nonceSize+len(ciphertext))
	token[0] = versionMagic
	index := 1

	copy(token[index:], tag)
	index += tagSize

	copy(token[index:], nonce)
	index += nonceSize

	copy(token[index:], ciphertext)

	return token
}

func unpackToken(token []byte) (ciphertext, nonce []byte, err error) {
	if len(token) < 1+tagSize+nonceSize {
		return nil, nil, errors.New("token is too short")
	}
	if token[0] != versionMagic {
		return nil, nil, fmt.Errorf("unknown token version %#x", token[0])
	}

	index := 1
	tag := token[index : index+tagSize]
	index += tagSize

	nonce = token[index : index+nonceSize]
	index += nonceSize

	// Open expects the tag appended to the ciphertext.
	ciphertext = append(append([]byte{}, token[index:]...), tag...)

	return ciphertext, nonce, nil
}
