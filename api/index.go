// Package handler é a entrada da função serverless: o app é montado uma vez
// por instância e cada requisição passa pelo adaptador de eventos.
package handler

import (
	"net/http"
	"os"
	"sync"

	"coursehub/app"
	"coursehub/config"
	"coursehub/logging"
	"coursehub/serverless"
)

var (
	mu      sync.Mutex
	adapter *serverless.Adapter
)

// instance monta o app na primeira chamada bem sucedida; falhas não ficam
// em cache, a próxima requisição tenta de novo.
func instance() (*serverless.Adapter, error) {
	mu.Lock()
	defer mu.Unlock()
	if adapter != nil {
		return adapter, nil
	}

	cfg, err := config.Load(os.Getenv("COURSEHUB_CONFIG"))
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(cfg)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("app init failed")
		return nil, err
	}
	adapter = &serverless.Adapter{Handler: a.Handler()}
	return adapter, nil
}

func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := instance()
	if err != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	h.ServeHTTP(w, r)
}
