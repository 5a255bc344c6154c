package main

import (
	"context"
	"log"
	"os"

	"github.com/quiltchat/quilt/internal/buildinfo"
	"github.com/quiltchat/quilt/internal/client/cli"
	"github.com/quiltchat/quilt/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
