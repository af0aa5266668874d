package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wireservice/agate-go/agatehttp"
	"github.com/wireservice/agate-go/agateio"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Load a file and serve its schema/aggregate/rows over HTTP.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")

		reader, err := openReader(args[0], table)
		if err != nil {
			return err
		}
		tester, err := buildTester(AppConfig)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			slog.Info("received shutdown signal, stopping server")
			cancel()
		}()

		tbl, err := agateio.ToTable(ctx, reader, agateio.LoadOptions{Tester: tester})
		if err != nil {
			return err
		}

		srv := agatehttp.NewServer(tbl)
		srv.Host = host
		srv.Port = port

		fmt.Printf("agatecli: serving %s rows on %s:%d\n", args[0], host, port)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("table", "", "table name, for SQLite sources with more than one table")
	serveCmd.Flags().String("host", "0.0.0.0", "address to bind")
	serveCmd.Flags().Int("port", 8282, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
