// Package main starts the padtouch server.
package main

import "github.com/spf13/pflag"

// main is the entrypoint for the padtouch server.
func main() {
	debug := pflag.Bool("debug", false, "Enable verbose debug logging")
	dataDir := pflag.String("data-dir", "", "Directory holding .env, skins, fonts and the profile (default $DATA_DIR or ./data)")
	pflag.Parse()

	if err := run(*debug, *dataDir); err != nil {
		logFatal(err)
	}
}
