package main

import (
	"log"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/dannyrandall/moviehub/internal/copilot"
	"github.com/dannyrandall/moviehub/internal/handlers"
	"github.com/dannyrandall/moviehub/internal/movies"
)

func main() {
	svcName := copilot.ServiceName("movies")
	addr := copilot.Lookup("MOVIES_LISTEN_ADDR", ":8080")

	api := &handlers.API{
		Movies:  movies.NewStore(),
		TraceID: xrayTraceID,
	}

	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, xray.Handler(xray.NewFixedSegmentNamer(svcName), api.Handler())); err != nil {
		log.Fatalf("error serving: %s", err)
	}
}

func xrayTraceID(r *http.Request) string {
	seg := xray.GetSegment(r.Context())
	if seg == nil {
		return ""
	}
	return seg.TraceID
}
