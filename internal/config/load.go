package config

import (
	"time"

	"github.com/skvortsov/order-management/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.UserServiceURL, "USER_SERVICE_URL")
	config.MustNonEmpty(cfg.ProductServiceURL, "PRODUCT_SERVICE_URL")

	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) UserTimeout() time.Duration {
	return time.Duration(c.UserServiceTimeout) * time.Second
}

func (c ServiceConfig) ProductTimeout() time.Duration {
	return time.Duration(c.ProductServiceTimeout) * time.Second
}
