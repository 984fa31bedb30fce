// Package duel provides the server-side infrastructure for two-player
// Lawn Duel matches over SSH: lobbies with join codes, an authoritative
// match loop, and snapshot relay to both clients.
package duel

import "github.com/vovakirdan/tui-dandelions/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the host of the lobby, Player2 the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's SSH session.
type SessionID string

// MatchID uniquely identifies a running duel match.
type MatchID string
