package ledger

import (
	"github.com/moonstead/moonstead/internal/ledger/repository"
	"github.com/moonstead/moonstead/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
