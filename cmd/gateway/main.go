package main

import (
	"shareit/config"
	"shareit/di"
	"shareit/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	gateway := di.InitializeGateway()
	gateway.Serve()
}
