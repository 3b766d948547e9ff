package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `ridelink - real-time ride-hailing backend

Usage:
  ridelink [flags]

Flags:
  -config string   path to YAML config file (default "config.yaml")
  -help            print this message

Configuration is read from the YAML file, with ${VAR:-default}
substitution from the environment.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
