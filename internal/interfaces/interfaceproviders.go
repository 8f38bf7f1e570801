package interfaces

import (
	"github.com/google/wire"

	"triage-server/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
