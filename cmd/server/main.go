//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

// @title                       HiveDesk API
// @version                     1.0
// @description                 Personal notes with passwordless and password sign-in.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"flag"
	"os"

	"hivedesk/internal/app"
	"hivedesk/internal/config"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	flag.StringVar(&path, "config", path, "path to the YAML config file")
	flag.Parse()

	app.Run(path)
}
