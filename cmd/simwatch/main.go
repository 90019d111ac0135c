package main

import (
	"os"

	"github.com/DeBrosOfficial/simwatch/pkg/cli"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	os.Exit(cli.Execute(info, os.Args[1:], os.Stdout, os.Stderr))
}
