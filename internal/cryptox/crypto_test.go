package cryptox

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := newKey(t)
	plaintext := []byte("hello world")

	ciphertext, nonce, err := EncryptBytes(plaintext, key)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatalf("ciphertext equals plaintext")
	}

	got, err := DecryptBytes(ciphertext, nonce, key)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestEncryptBytes_EmptyPlaintext(t *testing.T) {
	key := newKey(t)

	ciphertext, nonce, err := EncryptBytes(nil, key)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	got, err := DecryptBytes(ciphertext, nonce, key)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty plaintext, got %d bytes", len(got))
	}
}

func TestEncryptBytes_BadKeyLength(t *testing.T) {
	if _, _, err := EncryptBytes([]byte("data"), []byte("short")); err == nil {
		t.Fatalf("expected error for invalid key length")
	}
}

func TestDecryptBytes_WrongKeyFails(t *testing.T) {
	key := newKey(t)
	ciphertext, nonce, err := EncryptBytes([]byte("secret"), key)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	if _, err := DecryptBytes(ciphertext, nonce, newKey(t)); err == nil {
		t.Fatalf("expected authentication failure with wrong key")
	}
}

func TestDecryptBytes_TamperedCiphertextFails(t *testing.T) {
	key := newKey(t)
	ciphertext, nonce, err := EncryptBytes([]byte("secret"), key)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	ciphertext[0] ^= 0xff
	if _, err := DecryptBytes(ciphertext, nonce, key); err == nil {
		t.Fatalf("expected authentication failure on tampered ciphertext")
	}
}
