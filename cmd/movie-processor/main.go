package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dannyrandall/moviehub/internal/copilot"
	"github.com/dannyrandall/moviehub/internal/moviequeue"
	"github.com/dannyrandall/moviehub/internal/otel"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelotel "go.opentelemetry.io/otel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if copilot.TracingEnabled() {
		svcName := copilot.ServiceName("movies-processor")
		shutdown, err := otel.SetupTracer(ctx, svcName)
		if err != nil {
			log.Fatalf("unable to setup otel tracer: %s", err)
		}
		defer shutdown(context.Background())
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load aws config: %s", err)
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions)

	queueURL := copilot.QueueURI()
	if queueURL == "" {
		log.Fatalf("COPILOT_QUEUE_URI is not set")
	}

	createMovieURL := copilot.Lookup("MOVIES_URL",
		fmt.Sprintf("http://movies.%s.%s.local:8080/movies", copilot.Environment(), copilot.App()))

	q := &moviequeue.Queue{
		SQS:            sqs.NewFromConfig(cfg),
		HTTP:           otelhttp.DefaultClient,
		Tracer:         otelotel.Tracer(""),
		QueueName:      fmt.Sprintf("%s-%s-createMovie", copilot.App(), copilot.Environment()),
		QueueURL:       queueURL,
		CreateMovieURL: createMovieURL,
		WaitTime:       20,
	}

	if table, ok := os.LookupEnv("PROCESSED_MESSAGES_NAME"); ok {
		log.Printf("Using %q as the DynamoDB processed messages table", table)
		q.Ledger = &moviequeue.DynamoLedger{
			Dynamo: dynamodb.NewFromConfig(cfg),
			Table:  table,
		}
	}

	log.Printf("Waiting for events from %s", q.QueueURL)

	if err := q.ReceiveAndProcess(ctx); err != nil {
		log.Fatalf("unable to receive and process: %s", err)
	}
}
