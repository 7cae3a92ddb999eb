package journal

import (
	"github.com/moonstead/moonstead/internal/journal/repository"
	"github.com/moonstead/moonstead/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
