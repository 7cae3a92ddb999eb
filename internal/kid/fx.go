package kid

import (
	"github.com/moonstead/moonstead/internal/kid/repository"
	"github.com/moonstead/moonstead/internal/kid/service"
	"go.uber.org/fx"
)

var Module = fx.Module("kid.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
