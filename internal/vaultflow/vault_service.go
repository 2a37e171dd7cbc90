package vaultflow

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/audit"
	"github.com/colonyops/vaultflow/internal/core/config"
	"github.com/colonyops/vaultflow/internal/core/transition"
	"github.com/colonyops/vaultflow/internal/core/vault"
)

// VaultService wraps the item store, transition engine, and audit log with
// domain operations.
type VaultService struct {
	store  vault.Store
	engine *transition.Engine
	log    audit.Log
	config *config.Config
	logger zerolog.Logger
}

// NewVaultService creates a new VaultService.
func NewVaultService(store vault.Store, engine *transition.Engine, log audit.Log, cfg *config.Config, logger zerolog.Logger) *VaultService {
	return &VaultService{
		store:  store,
		engine: engine,
		log:    log,
		config: cfg,
		logger: logger.With().Str("component", "vault").Logger(),
	}
}

// Approve moves the item at path into the Approved directory.
func (s *VaultService) Approve(ctx context.Context, path string) (transition.Result, error) {
	return s.engine.Apply(ctx, transition.ActionApprove, path)
}

// Reject moves the item at path into the Rejected directory.
func (s *VaultService) Reject(ctx context.Context, path string) (transition.Result, error) {
	return s.engine.Apply(ctx, transition.ActionReject, path)
}

// SendForApproval moves a social draft into the nested social approval
// queue.
func (s *VaultService) SendForApproval(ctx context.Context, path string) (transition.Result, error) {
	return s.engine.Apply(ctx, transition.ActionSendForApproval, path)
}

// MarkDone moves an approved item into the Done directory.
func (s *VaultService) MarkDone(ctx context.Context, path string) (transition.Result, error) {
	return s.engine.Apply(ctx, transition.ActionMarkDone, path)
}

// Apply runs an arbitrary action; commands use the named wrappers above.
func (s *VaultService) Apply(ctx context.Context, action transition.Action, path string) (transition.Result, error) {
	return s.engine.Apply(ctx, action, path)
}

// List returns the items of one category.
func (s *VaultService) List(ctx context.Context, category vault.Category) ([]vault.ItemMeta, error) {
	return s.store.List(ctx, category)
}

// ReadItem returns the raw content of the item at path.
func (s *VaultService) ReadItem(ctx context.Context, path string) ([]byte, error) {
	return s.store.Read(ctx, path)
}

// RecentLogs returns up to limit audit records, newest first.
func (s *VaultService) RecentLogs(ctx context.Context, limit int) ([]audit.Record, error) {
	return s.log.Recent(ctx, limit)
}

// InitVault creates every category directory and the Logs directory.
// Existing directories are left untouched, so the call is idempotent.
func (s *VaultService) InitVault(ctx context.Context) error {
	dirs := make([]string, 0, len(vault.All())+1)
	for _, cat := range vault.All() {
		dirs = append(dirs, cat.Dir(s.config.VaultPath))
	}
	dirs = append(dirs, s.config.LogsDir())

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	s.logger.Info().Str("vault", s.config.VaultPath).Msg("vault directories ready")
	return nil
}
