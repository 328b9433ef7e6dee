package password

import (
	"github.com/alexedwards/argon2id"

	"github.com/5w1tchy/library-api/internal/config"
)

func paramsFrom(cfg config.Argon2) *argon2id.Params {
	return &argon2id.Params{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	}
}
