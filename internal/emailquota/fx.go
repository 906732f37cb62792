package emailquota

import (
	"github.com/staffsort/staffsort/internal/emailquota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emailquota.service",
	fx.Provide(service.New),
)
