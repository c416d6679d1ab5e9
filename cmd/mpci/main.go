package main

import (
	"os"

	"github.com/yuuuuuyu/miniapp-template/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
