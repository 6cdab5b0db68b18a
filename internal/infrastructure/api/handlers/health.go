package handlers

import (
	http2 "github.com/mufasadev/velocity-ledger/internal/infrastructure/api/http"
	"net/http"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	http2.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
