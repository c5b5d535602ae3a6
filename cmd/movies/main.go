package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dannyrandall/moviehub/internal/copilot"
	"github.com/dannyrandall/moviehub/internal/handlers"
	"github.com/dannyrandall/moviehub/internal/movies"
	"github.com/dannyrandall/moviehub/internal/otel"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	addr := copilot.Lookup("MOVIES_LISTEN_ADDR", ":8080")

	if copilot.TracingEnabled() {
		// Timeout for setup functions
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		svcName := copilot.ServiceName("movies")
		shutdown, err := otel.SetupTracer(ctx, svcName)
		if err != nil {
			log.Fatalf("unable to setup otel tracer: %s", err)
		}
		defer shutdown(context.Background())
	}

	api := &handlers.API{
		Movies:  movies.NewStore(),
		TraceID: handlers.OTelTraceID,
	}

	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, otelhttp.NewHandler(api.Handler(), "movies")); err != nil {
		log.Fatalf("error serving: %s", err)
	}
}
