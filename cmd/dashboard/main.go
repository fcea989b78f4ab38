package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cartlens-org/cartlens/api"
	"github.com/cartlens-org/cartlens/engine"
)

// main is the dashboard composition root: it loads the export into a
// session once, wires the JSON API over it and serves until stopped. The
// session is the only state — every request recomputes its aggregates from
// the loaded table.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dataPath := getEnv("EXPORT_PATH", "out/orders.csv")
	port := getEnv("PORT", "8080")

	sess, err := engine.NewSession(dataPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()
	log.Printf("Loaded export path=%s rows=%d", dataPath, sess.Len())

	metrics := api.NewMetrics()
	router := api.NewRouter(sess, metrics)

	log.Printf("Dashboard listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
