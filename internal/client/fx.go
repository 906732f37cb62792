package client

import (
	"github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/client/repository"
	"github.com/staffsort/staffsort/internal/client/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Client{})
}
