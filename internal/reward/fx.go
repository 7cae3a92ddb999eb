package reward

import (
	"github.com/moonstead/moonstead/internal/reward/repository"
	"github.com/moonstead/moonstead/internal/reward/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reward.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
