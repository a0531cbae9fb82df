package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"addrindex/internal/httpapi"
	"addrindex/internal/query"
	"addrindex/internal/world"
)

var serveCmd = &cobra.Command{
	Use:   "serve <snapshot-file>",
	Args:  cobra.ExactArgs(1),
	Short: "Load a World snapshot and serve prefix-completion queries over HTTP",
	RunE:  runServe,
}

var (
	serveBindIP   string
	serveBindPort int
)

func init() {
	defaultPort := 8080
	if raw := os.Getenv("ADDRINDEX_BIND_PORT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			defaultPort = n
		}
	}

	serveCmd.Flags().StringVar(&serveBindIP, "bind-ip", getEnv("ADDRINDEX_BIND_IP", "0.0.0.0"), "address to bind the HTTP server to")
	serveCmd.Flags().IntVar(&serveBindPort, "bind-port", defaultPort, "port to bind the HTTP server to")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	w, err := world.Deserialize(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	logger.Info().
		Int("countries", len(w.Countries)).
		Int("streets", w.Streets.Len()).
		Int("housenumbers", w.Housenumbers.Len()).
		Msg("snapshot loaded")

	server := httpapi.New(query.New(w))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(serveBindIP, fmt.Sprintf("%d", serveBindPort))
	logger.Info().Str("addr", addr).Msg("serving")
	return server.ListenAndServe(ctx, addr)
}
