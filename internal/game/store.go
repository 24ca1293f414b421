// internal/game/store.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/larsmn/olsen/internal/models"
)

const roomCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const roomCodeLen = 6

// RoomStore is the process-wide room registry. Rooms are fully isolated from
// one another; the store only owns the create/destroy lifecycle.
type RoomStore struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rooms map[string]*Game
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		rooms: make(map[string]*Game),
	}
}

// Create registers a new room under a fresh 6-character code.
func (s *RoomStore) Create(settings models.Settings, passcodeHash string) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	var code string
	for {
		code = s.newCode()
		if _, taken := s.rooms[code]; !taken {
			break
		}
	}
	g := NewGame(code, settings)
	g.PasscodeHash = passcodeHash
	s.rooms[code] = g
	return g
}

func (s *RoomStore) newCode() string {
	b := make([]byte, roomCodeLen)
	for i := range b {
		b[i] = roomCodeAlphabet[s.rng.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

func (s *RoomStore) Get(code string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rooms[code]
	return g, ok
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// List returns the codes of all live rooms.
func (s *RoomStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}
