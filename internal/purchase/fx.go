package purchase

import (
	"github.com/moonstead/moonstead/internal/purchase/repository"
	"github.com/moonstead/moonstead/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
