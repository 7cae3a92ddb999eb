package assignment

import (
	"github.com/moonstead/moonstead/internal/assignment/repository"
	"github.com/moonstead/moonstead/internal/assignment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assignment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
