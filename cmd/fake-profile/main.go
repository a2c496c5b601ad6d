// fake-profile imita as páginas de perfil do AtCoder para testes locais do
// badge (ATCODER_BASE_URL=http://localhost:8081/users/).
package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

func main() {
	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(log.StandardLogger()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("addr", addr).Info("fake profile server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
