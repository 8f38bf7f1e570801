package domain

import (
	"github.com/google/wire"

	"triage-server/internal/domain/assessment"
	"triage-server/internal/domain/conversation"
	"triage-server/internal/domain/session"
	"triage-server/internal/domain/triage"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	session.NewService,
	conversation.NewService,
	assessment.NewProjector,
	triage.NewService,
)
