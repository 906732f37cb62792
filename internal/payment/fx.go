package payment

import (
	"github.com/staffsort/staffsort/internal/payment/domain"
	"github.com/staffsort/staffsort/internal/payment/paystack"
	"github.com/staffsort/staffsort/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(func(c *paystack.Client) domain.Provider { return c }),
	fx.Provide(paystack.New),
	fx.Provide(service.New),
)
