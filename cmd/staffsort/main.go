package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/staffsort/staffsort/internal/client"
	"github.com/staffsort/staffsort/internal/clock"
	"github.com/staffsort/staffsort/internal/config"
	"github.com/staffsort/staffsort/internal/emailquota"
	"github.com/staffsort/staffsort/internal/logger"
	"github.com/staffsort/staffsort/internal/payment"
	"github.com/staffsort/staffsort/internal/server"
	"github.com/staffsort/staffsort/pkg/db"
	"github.com/staffsort/staffsort/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(telemetry.NewMetrics),
		db.Module,
		clock.Module,

		client.Module,
		emailquota.Module,
		payment.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
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
