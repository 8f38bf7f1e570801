//go:build wireinject

package main

import (
	"github.com/google/wire"

	"triage-server/internal/domain"
	"triage-server/internal/infrastructure"
	"triage-server/internal/interfaces"
	"triage-server/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
