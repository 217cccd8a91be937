package main

import (
	"github.com/solarops/solar-console/cmd/solarctl/cmd"
)

func main() {
	cmd.Execute()
}
