package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:               "serve",
		Short:             "serve the kernel's metrics and key-address API over HTTP",
		PersistentPreRunE: bootstrapInit,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to metrics.listen_addr from config")
	return cmd
}

func runServe(addr string) error {
	if addr == "" {
		addr = kd.cfg.Metrics.ListenAddr
	}
	log.WithField("addr", addr).Info("kerneld listening")
	return http.ListenAndServe(addr, newRouter())
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthHandler)
	r.Get("/keys/{key}", keyAddressHandler)
	r.Handle("/metrics", promhttp.HandlerFor(kd.kernel.Metrics().Registry(), promhttp.HandlerOpts{}))
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "chain": kd.cfg.Kernel.LocalChain})
}

func keyAddressHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	addr, err := kd.kernel.KeyAddress(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"key": key, "address": addr})
}
