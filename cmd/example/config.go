package main

import (
	"github.com/dmitrymomot/webcore"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/server"
	"github.com/dmitrymomot/webcore/middleware"
)

type Config struct {
	App         webcore.Config
	Log         logger.Config
	Server      server.Config
	Limits      middleware.LimitsConfig
	Compression middleware.CompressionConfig

	AppName   string `env:"APP_NAME" envDefault:"webcore-example"`
	AssetsDir string `env:"ASSETS_DIR" envDefault:"./public"`
}
