package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/broker/messages"
	"github.com/QuipuLog/CargoTrail/internal/services/tracking"
	"github.com/go-chi/chi/v5"
)

type cargoLiveOpts struct {
	httpAddr string

	topic         string
	consumerGroup string

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

// liveStats counts messages across consumer restarts within the process.
type liveStats struct {
	processed atomic.Int64
	failed    atomic.Int64
}

func (s *liveStats) snapshot() map[string]int64 {
	return map[string]int64{
		"processed": s.processed.Load(),
		"failed":    s.failed.Load(),
	}
}

func runCargoLive(ctx context.Context, opts cargoLiveOpts, svc *tracking.Service, consumer kafkaConsumer) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8082"
	}

	stats := &liveStats{}

	go func() {
		slog.Info("kafka consumer started", "topic", opts.topic, "group", opts.consumerGroup)
		for ctx.Err() == nil {
			err := consumer.Consume(ctx, func(_key, value []byte) error {
				var m messages.ContainerUpdated
				if err := json.Unmarshal(value, &m); err != nil {
					stats.failed.Add(1)
					// A malformed message never becomes valid; skip it.
					slog.Warn("skip malformed container update", "err", err)
					return nil
				}
				if err := svc.ApplyUpdate(ctx, m); err != nil {
					stats.failed.Add(1)
					return err
				}
				stats.processed.Add(1)
				return nil
			})
			if ctx.Err() != nil {
				return
			}
			slog.Error("consumer stopped, restarting", "err", err)
			time.Sleep(time.Second)
		}
	}()

	return runLiveHTTPServer(ctx, opts, stats)
}

func runLiveHTTPServer(ctx context.Context, opts cargoLiveOpts, stats *liveStats) error {
	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.snapshot())
	})

	srv := &http.Server{Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	slog.Info("live worker listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
