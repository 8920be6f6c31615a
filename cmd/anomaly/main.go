package main

import (
	"os"

	"github.com/bryanwahyu/climate-anomaly/cmd/anomaly/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
