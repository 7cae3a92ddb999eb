package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/clock"
	"github.com/moonstead/moonstead/internal/config"
	"github.com/moonstead/moonstead/internal/migration"
	"github.com/moonstead/moonstead/internal/observability"
	"github.com/moonstead/moonstead/internal/server"
	"github.com/moonstead/moonstead/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
