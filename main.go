// main is the entry point for the bfhaxis CLI.
package main

import (
	"github.com/johanreventlow/BFHcharts-sub001/cmd"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/iocache"
	"github.com/johanreventlow/BFHcharts-sub001/internal/logger"
)

func main() {
	err := run()
	if err != nil {
		contract.LogFatal("bfhaxis failed", err)
	}
}

func run() error {
	defer iocache.CloseHistory()
	defer logger.Sync()

	return cmd.Execute()
}
