package battleship

import (
	"fmt"
	"sync"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
)

// SessionStore holds at most one live Session per room.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
	}
}

// Create builds a session for roomID unless one is already live. The bool reports whether
// this call created it; otherwise the existing session is returned.
func (that *SessionStore) Create(roomID, gameID, player1ID, player2ID int64, board1, board2 *Board) (*Session, bool) {
	return that.Add(NewSession(roomID, gameID, player1ID, player2ID, board1, board2))
}

// Add stores a prepared session with the same at-most-one semantics as Create.
func (that *SessionStore) Add(session *Session) (*Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.sessions[session.RoomID()]; ok {
		return existing, false
	}

	that.sessions[session.RoomID()] = session

	return session, true
}

func (that *SessionStore) Get(roomID int64) (*Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room %d", apperror.ErrSessionNotFound, roomID)
	}

	return session, nil
}

func (that *SessionStore) Remove(roomID int64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, roomID)
}

func (that *SessionStore) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

// Close drops every live session. Finished games are already durable.
func (that *SessionStore) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions = make(map[int64]*Session)
}
