package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/clients/sheetsclient"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	Database     db.Database
	Logger       *zap.Logger
	Ctx          context.Context
}
