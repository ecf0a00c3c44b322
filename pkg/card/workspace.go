package card

import (
	"crypto/sha256"
	"encoding/hex"
)

// Workspace identifies the document being edited. It is passed with every
// submit so fulfillers can read sibling files under the scope root.
type Workspace struct {
	ScopeRoot string `json:"scope_root"`
	PlanPath  string `json:"plan_path,omitempty"`
}

// SessionID derives the stable session identifier for a workspace. The same
// document identity always maps to the same id, so reopening the editor reuses
// any cached backend state. No login or token is involved.
func (ws Workspace) SessionID() string {
	h := sha256.New()
	h.Write([]byte(ws.ScopeRoot))
	h.Write([]byte{0})
	h.Write([]byte(ws.PlanPath))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Position is a 0-indexed (line, column) cursor location.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}
