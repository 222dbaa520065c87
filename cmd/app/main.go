package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/yanqian/dailyreport/internal/bootstrap"
)

const usage = `usage: app <command>

commands:
  serve        run the scheduler and the operations HTTP server (default)
  run-daily    run the daily report job once and exit
  run-weather  write the weather snapshot once and exit`

var commands = map[string]func(*bootstrap.App, context.Context) error{
	"serve":       (*bootstrap.App).Serve,
	"run-daily":   (*bootstrap.App).RunDaily,
	"run-weather": (*bootstrap.App).RunWeather,
}

func main() {
	name := "serve"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	if name == "help" || name == "-h" || name == "--help" {
		fmt.Println(usage)
		return
	}
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", name, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to wire application: %v", err)
	}

	err = run(app, ctx)
	cleanup()
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
}
