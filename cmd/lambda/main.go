package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/yigit/mindcare/internal/bootstrap"
	"github.com/yigit/mindcare/internal/lambdaproxy"
	"github.com/yigit/mindcare/internal/pkg/logger"
	"github.com/yigit/mindcare/internal/server"
)

func main() {
	app, err := bootstrap.Initialize(context.Background(), os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer app.Deps.Close()

	proxy := lambdaproxy.New(server.WithCORS(app.Config.Server.CORSOrigins, app.Router))
	lambda.Start(proxy.Handle)
}
