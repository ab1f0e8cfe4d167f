package employee

import "golang.org/x/crypto/bcrypt"

//go:generate mockgen -source=employee_hasher.go -destination=mock/employee_hasher_mock.go -package=mock
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
