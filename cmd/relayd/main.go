// Package main runs the invoice credit relay: a stateless HTTP facade over
// the deployed credit contracts and the invoice metadata pinning service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nutcas3/tokenized-credit/internal/chain"
	"github.com/nutcas3/tokenized-credit/internal/config"
	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/httpapi"
	"github.com/nutcas3/tokenized-credit/internal/pinning"
)

const contractsFile = "contracts.yaml"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ApplyContractsFile(contractsFile); err != nil {
		log.Fatalf("Failed to apply contracts file: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}

	gateway, err := chain.NewGateway(cfg)
	if err != nil {
		log.Fatalf("Failed to create chain gateway: %v", err)
	}
	store, err := pinning.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create pinning client: %v", err)
	}

	svc := credit.NewService(gateway, store, log)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpapi.NewRouter(svc, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.TxWaitTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":   cfg.ListenAddr,
			"signer": gateway.SignerAddress(),
		}).Info("relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
	log.Info("relay stopped")
}
