// Package transition implements the state machine that moves items between
// category directories and records each move in the audit log.
package transition

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/audit"
	"github.com/colonyops/vaultflow/internal/core/eventbus"
	"github.com/colonyops/vaultflow/internal/core/vault"
)

// Errors surfaced by the engine. Store errors (vault.ErrNotFound,
// vault.ErrAlreadyExists) pass through unchanged.
var (
	// ErrInvalidInput is returned for an empty path, a path outside the
	// vault root, or an unknown action.
	ErrInvalidInput = errors.New("invalid input")
)

// Action tags one kind of transition.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionSendForApproval Action = "send_for_approval"
	ActionMarkDone        Action = "mark_done"
)

// destinations fixes the destination category per action. The source is not
// restricted: approve and reject are callable from Needs Action or Pending
// Approval alike, and the engine only validates that the file exists at the
// supplied path.
var destinations = map[Action]vault.Category{
	ActionApprove:         vault.CategoryApproved,
	ActionReject:          vault.CategoryRejected,
	ActionSendForApproval: vault.CategoryPendingSocial,
	ActionMarkDone:        vault.CategoryDone,
}

// Destination returns the destination category for an action.
func Destination(action Action) (vault.Category, bool) {
	dest, ok := destinations[action]
	return dest, ok
}

// Result describes a completed transition.
type Result struct {
	Item   vault.ItemMeta
	Record audit.Record
	// Logged is false when the audit append failed. The move stands
	// regardless; the filesystem is the source of truth and the log is
	// best-effort.
	Logged bool
}

// Engine validates and executes transitions.
type Engine struct {
	root   string
	store  vault.Store
	log    audit.Log
	bus    *eventbus.Bus
	actor  string
	clock  func() time.Time
	logger zerolog.Logger
}

// NewEngine creates an engine rooted at the vault path. The bus may be nil
// when no component listens for transition events.
func NewEngine(root string, store vault.Store, log audit.Log, bus *eventbus.Bus, actor string, logger zerolog.Logger) *Engine {
	return &Engine{
		root:   root,
		store:  store,
		log:    log,
		bus:    bus,
		actor:  actor,
		clock:  time.Now,
		logger: logger.With().Str("component", "transition").Logger(),
	}
}

// WithClock overrides the clock used to stamp audit records.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// Apply moves the item at path to the action's destination category and
// appends an audit record. An audit failure is logged and swallowed; it
// never rolls back the completed move.
func (e *Engine) Apply(ctx context.Context, action Action, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, fmt.Errorf("no file path provided: %w", ErrInvalidInput)
	}

	dest, ok := destinations[action]
	if !ok {
		return Result{}, fmt.Errorf("unknown action %q: %w", action, ErrInvalidInput)
	}

	abs, err := e.containedPath(path)
	if err != nil {
		return Result{}, err
	}
	sourceDir := filepath.Dir(abs)

	item, err := e.store.Move(ctx, abs, dest)
	if err != nil {
		return Result{}, err
	}

	rec := audit.NewRecord(e.clock(), string(action), item.Filename, sourceDir, dest.Dir(e.root), e.actor)

	result := Result{Item: item, Record: rec, Logged: true}
	if err := e.log.Append(ctx, rec); err != nil {
		// The move already happened; surface the audit failure on the
		// side channel only.
		e.logger.Error().Err(err).Str("filename", item.Filename).Str("action", string(action)).
			Msg("audit append failed after completed move")
		result.Logged = false
	}

	e.logger.Info().
		Str("action", string(action)).
		Str("filename", item.Filename).
		Str("destination", string(dest)).
		Msg("transition applied")

	if e.bus != nil {
		e.bus.Publish(eventbus.EventTransitionApplied, eventbus.TransitionAppliedPayload{
			Action: string(action),
			Item:   item,
			Record: rec,
			Logged: result.Logged,
		})
	}

	return result, nil
}

// containedPath resolves path and rejects anything that escapes the vault
// root. The caller supplies a raw path, so lexical containment is the only
// guard against moving arbitrary filesystem paths.
func (e *Engine) containedPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, ErrInvalidInput)
	}
	root, err := filepath.Abs(e.root)
	if err != nil {
		return "", fmt.Errorf("resolve vault root: %w", err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the vault root: %w", path, ErrInvalidInput)
	}
	return abs, nil
}
