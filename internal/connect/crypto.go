package connect

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/rlunar/ionize/internal/domain"
)

// Cipher handles the reversible password encryption and the derived
// activation keys. Passwords are stored encrypted, not hashed, because the
// password-reset flow mails the generated clear password back to the user;
// the per-user key is derived from the install secret and the username.
type Cipher struct {
	secret []byte
}

func NewCipher(secret string) *Cipher {
	return &Cipher{secret: []byte(secret)}
}

func (c *Cipher) userKey(username string) []byte {
	return pbkdf2.Key(c.secret, []byte("ionize:"+username), 4096, 32, sha256.New)
}

// Encrypt encrypts a clear value in the context of a user record.
func (c *Cipher) Encrypt(value string, u domain.User) (string, error) {
	block, err := aes.NewCipher(c.userKey(u.Username()))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt for a one-time use of the stored value.
func (c *Cipher) Decrypt(value string, u domain.User) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode stored value: %w", err)
	}
	block, err := aes.NewCipher(c.userKey(u.Username()))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("stored value too short")
	}
	clear, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt stored value: %w", err)
	}
	return string(clear), nil
}

// ActivationKey derives the token proving possession of the account's email
// address. It is recomputed, never stored, so it changes whenever the stored
// password does.
func (c *Cipher) ActivationKey(u domain.User) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(u.Username()))
	mac.Write([]byte{'|'})
	mac.Write([]byte(u.Get(domain.FieldPassword)))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomPassword returns a random password of n characters drawn from an
// unambiguous alphabet.
func RandomPassword(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken
		panic(fmt.Sprintf("connect: random source unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf)
}
