package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const OAuthStateTTL = 10 * time.Minute

// OAuthStateRepository remembers the state nonces handed out on the Google
// redirect until the callback consumes them.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository() *OAuthStateRepository {
	c := cache.New(OAuthStateTTL, 5*time.Minute)
	return &OAuthStateRepository{
		cache: c,
	}
}

func (r *OAuthStateRepository) Save(state string) {
	r.cache.Set(state, true, cache.DefaultExpiration)
}

// Consume reports whether state was issued and not yet used. A state can be consumed once.
func (r *OAuthStateRepository) Consume(state string) bool {
	if state == "" {
		return false
	}
	if _, found := r.cache.Get(state); found {
		r.cache.Delete(state)
		return true
	}
	return false
}
