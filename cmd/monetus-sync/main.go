package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"monetus/internal/cli"
	"monetus/internal/sync"
	"monetus/internal/syncnet"
)

func main() {
	var (
		host      = flag.Bool("host", false, "wait for a peer and merge its snapshot")
		join      = flag.String("join", "", "connect to a hosting peer at host:port (tcp)")
		transport = flag.String("transport", "tcp", "transport to use: tcp or amqp")
		code      = flag.String("code", "", "session code for the amqp relay")
	)

	cli.LoadEnvFile()
	flag.Parse()

	logger := cli.SetupLogger(os.Getenv("MONETUS_LOG_LEVEL"))
	cfg := cli.MustLoadConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	if *transport == "tcp" && *host == (*join != "") {
		logger.Error("Exactly one of -host or -join is required")
		os.Exit(1)
	}

	store := cli.MustOpenStore(logger, cfg)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := sync.NewSession(store)
	sess.GracePeriod = cfg.SyncGracePeriod

	channel, events, asHost, err := openChannel(ctx, cfg.SyncListenAddr, cfg.AMQPURL, *transport, *host, *join, *code, logger)
	if err != nil {
		logger.Error("Failed to open sync channel", "error", err)
		os.Exit(1)
	}

	if asHost {
		err = sess.Host(channel)
	} else {
		err = sess.Join(channel)
	}
	if err != nil {
		logger.Error("Failed to start sync session", "error", err)
		os.Exit(1)
	}

	if err := sync.Run(ctx, sess, events); err != nil {
		logger.Error("Sync failed", "state", sess.State().String(), "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Sync completed", "role", roleName(asHost))
}

func openChannel(ctx context.Context, listenAddr, amqpURL, transport string, host bool, join, code string, logger *slog.Logger) (sync.Channel, <-chan sync.Event, bool, error) {
	switch transport {
	case "tcp":
		if host {
			logger.InfoContext(ctx, "Waiting for peer", "addr", listenAddr)
			ch, err := syncnet.HostTCP(ctx, listenAddr)
			if err != nil {
				return nil, nil, false, err
			}
			return ch, ch.Events(), true, nil
		}
		ch, err := syncnet.JoinTCP(ctx, join)
		if err != nil {
			return nil, nil, false, err
		}
		return ch, ch.Events(), false, nil
	case "amqp":
		if code == "" {
			return nil, nil, false, fmt.Errorf("amqp transport requires -code")
		}
		role := sync.RoleJoiner
		if host {
			role = sync.RoleHost
		}
		ch, err := syncnet.DialAMQP(ctx, amqpURL, code, role)
		if err != nil {
			return nil, nil, false, err
		}
		return ch, ch.Events(), host, nil
	default:
		return nil, nil, false, fmt.Errorf("unknown transport %q", transport)
	}
}

func roleName(host bool) string {
	if host {
		return "host"
	}
	return "joiner"
}
