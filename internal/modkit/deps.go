package modkit

import (
	"gitevents/internal/platform/config"
	"gitevents/internal/platform/logger"
	"gitevents/internal/services/webhook/domain"
)

// Deps is what api.Mount hands to every module
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// record storage and speaker lookup; GitHub in production, memstore in dry runs
	Store  domain.ContentStore
	Users  domain.UserDirectory
	Parser domain.Parser
}
