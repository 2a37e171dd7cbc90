package eventbus

import (
	"github.com/colonyops/vaultflow/internal/core/audit"
	"github.com/colonyops/vaultflow/internal/core/vault"
)

// TransitionAppliedPayload is emitted when an item completed a transition.
type TransitionAppliedPayload struct {
	Action string
	Item   vault.ItemMeta
	Record audit.Record
	// Logged is false when the move succeeded but the audit append did
	// not; the move still stands.
	Logged bool
}

// ItemDetectedPayload is emitted when a new document appears in a watched
// inbox directory.
type ItemDetectedPayload struct {
	Category vault.Category
	Path     string
}
