package security

import "golang.org/x/crypto/bcrypt"

// Encoder turns plaintext passwords into opaque hashes.
type Encoder interface {
	Encode(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}

type BcryptEncoder struct{ cost int }

func NewBcryptEncoder() *BcryptEncoder { return &BcryptEncoder{cost: bcrypt.DefaultCost} }

func (e *BcryptEncoder) Encode(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), e.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *BcryptEncoder) Matches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
