/**
 * @description
 * The session document and the repository contract for persisting it.
 *
 * The entire session (user, bank accounts, loans, transactions,
 * notifications, price) is serialized as one JSON document under a single
 * named key and rehydrated in full on boot, mirroring the client-local
 * storage layout of the product. The envelope carries a schema version; a
 * mismatch on load discards the stored document and starts empty.
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
)

// SchemaVersion is bumped whenever the session document shape changes in a
// way old documents cannot satisfy. Loads of a different version are
// discarded rather than migrated.
const SchemaVersion = 1

// ErrSessionNotFound is returned by Load when no usable session document
// exists (missing key, corrupt payload or schema version mismatch).
var ErrSessionNotFound = errors.New("session document not found")

// Session is the full session-scoped state for the single demo user.
type Session struct {
	User          *domain.User          `json:"user,omitempty"`
	BankAccounts  []domain.BankAccount  `json:"bank_accounts"`
	Loans         []domain.Loan         `json:"loans"`
	Transactions  []domain.Transaction  `json:"transactions"`
	Notifications []domain.Notification `json:"notifications"`
	BTCPrice      decimal.Decimal       `json:"btc_price"`
}

// SessionRepository persists the session document as a whole.
type SessionRepository interface {
	Save(ctx context.Context, session Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

type sessionEnvelope struct {
	Version int     `json:"version"`
	State   Session `json:"state"`
}

// encodeSession wraps the session in its versioned envelope.
func encodeSession(session Session) ([]byte, error) {
	return json.Marshal(sessionEnvelope{Version: SchemaVersion, State: session})
}

// decodeSession unwraps a stored envelope. Undecodable payloads and version
// mismatches both report ErrSessionNotFound so callers fall back to an empty
// session.
func decodeSession(data []byte) (*Session, error) {
	var env sessionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d, want %d", ErrSessionNotFound, env.Version, SchemaVersion)
	}
	return &env.State, nil
}
