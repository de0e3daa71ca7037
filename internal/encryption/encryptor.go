// Package encryption protects database snapshots at rest in the vault.
package encryption

import "io"

// Encryptor handles encryption of snapshots and unlocking for decryption.
//
// Encryption uses a stored public key and needs no passphrase. Decryption
// requires unlocking the private key with a passphrase, which produces a
// DecryptionContext for the session.
type Encryptor interface {
	// Setup generates and stores a new key pair, protecting the private key
	// with the given passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key with the passphrase and returns a
	// DecryptionContext that can decrypt data for the duration of the session.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether key material is already in place.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for the duration
// of a restore session. Created by Encryptor.Unlock. The unlocked key is held
// only in memory and is gone when the context is dropped.
type DecryptionContext interface {
	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
