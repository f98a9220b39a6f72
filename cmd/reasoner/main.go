package main

import (
	"os"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
