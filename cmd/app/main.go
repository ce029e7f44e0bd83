package main

import (
	"context"
	"fmt"
	"os"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	trackingservice "bus-track/internal/tracking-service"
)

func main() {
	cmd := "tracking-service"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cmd, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "tracking-service":
		if err := trackingservice.Execute(context.Background(), mylog, cfg); err != nil {
			mylog.Error("service stopped with error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(1)
	}
}
