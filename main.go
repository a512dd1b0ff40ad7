package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/wfunc/tictacgoal/config"
	"github.com/wfunc/tictacgoal/logger"
	"github.com/wfunc/tictacgoal/monitor"
	"github.com/wfunc/tictacgoal/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	cmd := &cli.Command{
		Name:  "tictacgoal",
		Usage: "real-time tic-tac-toe server with hidden per-round goals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: ".",
				Usage: "directory containing config.yaml",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// Load configuration
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	// Initialize monitoring
	mon := monitor.NewMonitor("tictacgoal")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, mon)

	// Exit cleanly on SIGINT/SIGTERM
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		logger.Log.Info("Shutting down")
		gameServer.Shutdown()
	}()

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	return gameServer.Start()
}
