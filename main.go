// nagochat is a terminal chat console for a remote responder.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/linanwx/nagochat/cmd"
	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/logger"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), configDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	defer logger.Close()
	cmd.Execute()
}
