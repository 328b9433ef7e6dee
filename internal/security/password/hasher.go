package password

import (
	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/config"
)

type Hasher struct {
	params *argon2id.Params
}

func NewHasher(cfg config.Argon2) *Hasher {
	return &Hasher{params: paramsFrom(cfg)}
}

// Hash returns a PHC string like `$argon2id$v=19$m=65536,t=3,p=2$...`
func (h *Hasher) Hash(plain string) (string, error) {
	phc, err := argon2id.CreateHash(plain, h.params)
	return phc, errors.Wrap(err, "hash password")
}

// Verify checks password vs PHC hash and also indicates if a rehash is recommended.
func (h *Hasher) Verify(plain, phc string) (ok bool, needsRehash bool, err error) {
	ok, err = argon2id.ComparePasswordAndHash(plain, phc)
	if err != nil || !ok {
		return ok, false, err
	}
	return ok, h.NeedsRehash(phc), nil
}

func (h *Hasher) NeedsRehash(phc string) bool {
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		return true
	}
	p := h.params
	return stored.Memory < p.Memory ||
		stored.Iterations < p.Iterations ||
		stored.Parallelism < p.Parallelism ||
		stored.SaltLength < p.SaltLength ||
		stored.KeyLength < p.KeyLength
}
