package httptransport

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"rps-arena/internal/store"
)

var (
	ErrUnknownAPIKey = errors.New("unknown_api_key")
	ErrNameTaken     = errors.New("name_taken")
	ErrInvalidName   = errors.New("invalid_name")
)

// Player is an onboarded account: a bank address plus the API key that
// authenticates play calls.
type Player struct {
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerRegistry maps API keys to player addresses. In-memory, like the
// contract it fronts.
type PlayerRegistry struct {
	mu     sync.Mutex
	byKey  map[string]*Player
	byName map[string]*Player
	byAddr map[string]*Player
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		byKey:  map[string]*Player{},
		byName: map[string]*Player{},
		byAddr: map[string]*Player{},
	}
}

func (pr *PlayerRegistry) Register(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, ErrInvalidName
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if _, ok := pr.byName[strings.ToLower(name)]; ok {
		return nil, ErrNameTaken
	}
	key, err := newAPIKey()
	if err != nil {
		return nil, err
	}
	p := &Player{
		Address:   strings.ToLower(store.NewID()),
		Name:      name,
		APIKey:    key,
		CreatedAt: time.Now(),
	}
	pr.byKey[key] = p
	pr.byName[strings.ToLower(name)] = p
	pr.byAddr[p.Address] = p
	return p, nil
}

func (pr *PlayerRegistry) ByAPIKey(key string) (*Player, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	p, ok := pr.byKey[key]
	if !ok {
		return nil, ErrUnknownAPIKey
	}
	return p, nil
}

func (pr *PlayerRegistry) ByAddress(addr string) (*Player, bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	p, ok := pr.byAddr[addr]
	return p, ok
}

func newAPIKey() (string, error) {
	var b [24]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "rpsk_" + hex.EncodeToString(b[:]), nil
}
