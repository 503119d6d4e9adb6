package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ragbridge/internal/bootstrap"
	"ragbridge/internal/logger"
	httptransport "ragbridge/internal/transport/http"
)

func main() {
	log := logger.Default()
	ctx := context.Background()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatal(fmt.Sprintf("bootstrap failed: %v", err))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error(fmt.Sprintf("close resources failed: %v", err))
		}
	}()

	router, err := httptransport.NewRouter(app)
	if err != nil {
		log.Fatal(fmt.Sprintf("build router failed: %v", err))
		os.Exit(1)
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Bind before logging so the startup line is only emitted once the
	// port is actually held.
	listener, err := net.Listen("tcp", app.Config.HTTPAddr())
	if err != nil {
		log.Fatal(fmt.Sprintf("bind %s failed: %v", app.Config.HTTPAddr(), err))
		os.Exit(1)
	}

	go func() {
		log.Info(fmt.Sprintf("server listening on %s:%d", app.Config.App.Host, app.Config.App.Port))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("server failed: %v", err))
			os.Exit(1)
		}
	}()

	waitForShutdown(server, log)
}

func waitForShutdown(server *http.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("server shutdown failed: %v", err))
	}
}
