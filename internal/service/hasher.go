package service

import "signup-service/pkg/utils"

type Hasher interface {
	Hash(plain string) (string, error)
}

type BcryptHasher struct{ Cost int }

func (h BcryptHasher) Hash(plain string) (string, error) { return utils.HashPassword(plain, h.Cost) }
