package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	talentscmd "github.com/louisbranch/talentcalc/internal/cmd/talents"
	entrypoint "github.com/louisbranch/talentcalc/internal/platform/cmd"
)

func main() {
	cfg, err := talentscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	entrypoint.SetLogPrefix(entrypoint.ServiceTalents)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := talentscmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
