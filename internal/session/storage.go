package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agromart/client/internal/cart"
)

// Storage persists the cart between runs, keyed by a session identifier.
// It is the local-storage analog: one small JSON file per session under
// the data directory. Whatever it holds is corrected against a fresh
// catalog snapshot on restore (cart.Restore), never trusted as-is.
type Storage struct {
	dir       string
	sessionID string
}

type persistedCart struct {
	SessionID string      `json:"session_id"`
	Lines     []cart.Line `json:"lines"`
}

// NewStorage opens (or creates) the data directory and reuses the session
// id recorded there, minting a fresh one on first run.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}

	idPath := filepath.Join(dir, "session_id")
	b, err := os.ReadFile(idPath)
	if err == nil && len(b) > 0 {
		return &Storage{dir: dir, sessionID: string(b)}, nil
	}

	id := uuid.NewString()
	if err := os.WriteFile(idPath, []byte(id), 0o644); err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}
	return &Storage{dir: dir, sessionID: id}, nil
}

func (s *Storage) SessionID() string {
	return s.sessionID
}

func (s *Storage) cartPath() string {
	return filepath.Join(s.dir, "cart-"+s.sessionID+".json")
}

// SaveCart writes the cart lines for this session.
func (s *Storage) SaveCart(lines []cart.Line) error {
	b, err := json.Marshal(persistedCart{SessionID: s.sessionID, Lines: lines})
	if err != nil {
		return err
	}
	return os.WriteFile(s.cartPath(), b, 0o644)
}

// LoadCart reads the persisted lines; a missing file is an empty cart,
// not an error. A file written for another session id is ignored.
func (s *Storage) LoadCart() ([]cart.Line, error) {
	b, err := os.ReadFile(s.cartPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []cart.Line{}, nil
		}
		return nil, err
	}

	var stored persistedCart
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, err
	}
	if stored.SessionID != s.sessionID {
		return []cart.Line{}, nil
	}
	return stored.Lines, nil
}
