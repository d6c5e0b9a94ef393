// @title           TigFin API
// @version         1.0
// @description     TigFin small business management API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tigfin/tigfin/internal/auth"
	"github.com/tigfin/tigfin/internal/client"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/config"
	"github.com/tigfin/tigfin/internal/events"
	"github.com/tigfin/tigfin/internal/expense"
	"github.com/tigfin/tigfin/internal/finance"
	"github.com/tigfin/tigfin/internal/migration"
	"github.com/tigfin/tigfin/internal/observability/logger"
	"github.com/tigfin/tigfin/internal/payment"
	"github.com/tigfin/tigfin/internal/rollover"
	"github.com/tigfin/tigfin/internal/seed"
	"github.com/tigfin/tigfin/internal/server"
	"github.com/tigfin/tigfin/internal/task"
	"github.com/tigfin/tigfin/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		fx.Provide(events.NewOutbox),

		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.SeedDemoData && !cfg.IsProduction() {
				return seed.EnsureDemoData(conn, node)
			}
			return nil
		}),

		auth.Module,
		client.Module,
		task.Module,
		expense.Module,
		payment.Module,
		finance.Module,
		rollover.Module,

		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
