// Package vaultflow wires the core components into the services consumed by
// the CLI commands and the web dashboard.
package vaultflow

import (
	"github.com/colonyops/vaultflow/internal/core/activity"
	"github.com/colonyops/vaultflow/internal/core/config"
	"github.com/colonyops/vaultflow/internal/core/eventbus"
)

// App is the central entry point for all vaultflow operations. Commands and
// the web server consume App instead of cherry-picking raw dependencies.
type App struct {
	Vault    *VaultService
	Activity *activity.Service
	Config   *config.Config
	Bus      *eventbus.Bus
}

// NewApp constructs an App from explicit dependencies.
func NewApp(vaultSvc *VaultService, activitySvc *activity.Service, cfg *config.Config, bus *eventbus.Bus) *App {
	return &App{
		Vault:    vaultSvc,
		Activity: activitySvc,
		Config:   cfg,
		Bus:      bus,
	}
}
