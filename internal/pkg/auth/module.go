package auth

import "go.uber.org/fx"

// Module provides password hashing primitives via fx.
var Module = fx.Provide(newPasswordHasher)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}
