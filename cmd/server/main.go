package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"arena-server/internal/config"
	"arena-server/internal/httpapi"
	"arena-server/internal/registry"
	"arena-server/internal/roommgr"
	"arena-server/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" ARENA SERVER")
	log.Println("================================")

	appConfig := config.Load()

	var reg registry.Registry
	if appConfig.Registry.Enabled {
		mem := registry.NewMemory(appConfig.Registry.SweepInterval)
		reg = mem
		log.Println("shared room registry: in-memory (no Redis client in this build; single-host only)")
	} else {
		log.Println("shared room registry: disabled (USE_REDIS=false)")
	}

	gateway := ws.NewGateway()
	manager := roommgr.NewManager(gateway, reg, appConfig.Registry.TTL)
	gateway.SetManager(manager)

	rateLimiter := httpapi.NewIPRateLimiter(httpapi.DefaultRateLimitConfig)
	mux := http.NewServeMux()
	router := httpapi.NewRouter(httpapi.RouterConfig{RateLimiter: rateLimiter})
	mux.Handle("/", router)
	mux.Handle("/ws", rateLimiter.Middleware(gateway))

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("listening on http://localhost%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	srv.Close()
}
