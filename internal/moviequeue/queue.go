// Package moviequeue turns "create movie" messages queued on SQS into calls
// against the movies API.
package moviequeue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/dannyrandall/moviehub/internal/movies"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// SQSAPI is the subset of the SQS client used by Queue.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Ledger remembers which messages already produced a movie so that
// redelivered messages are not created twice.
type Ledger interface {
	Seen(ctx context.Context, messageID string) (bool, error)
	Mark(ctx context.Context, messageID string) error
}

var errRejected = errors.New("movie rejected")

type Queue struct {
	SQS    SQSAPI
	HTTP   *http.Client
	Tracer trace.Tracer

	// Ledger is optional; without it every delivery creates a movie.
	Ledger Ledger

	CreateMovieURL string
	QueueName      string
	QueueURL       string

	// WaitTime is the long polling duration in seconds.
	WaitTime int32
}

// ReceiveAndProcess polls the queue until ctx is cancelled.
func (q *Queue) ReceiveAndProcess(ctx context.Context) error {
	for {
		err := q.recvAndProcess(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			continue
		}

		log.Printf("error: %s", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func (q *Queue) recvAndProcess(ctx context.Context) error {
	ctx, span := q.Tracer.Start(ctx, "recvAndProcess",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(semconv.MessagingSystemKey.String("AmazonSQS")),
		trace.WithAttributes(semconv.MessagingDestinationKey.String(q.QueueName)),
		trace.WithAttributes(semconv.MessagingDestinationKindQueue))
	defer span.End()

	msgs, err := q.receiveMessages(ctx)
	if err != nil {
		return spanErrorf(span, "receive messages: %w", err)
	}

	var failed int
	for _, msg := range msgs {
		if err := q.processMessage(ctx, msg); err != nil {
			failed++
			log.Printf("unable to process message %q: %s", aws.ToString(msg.MessageId), err)
		}
	}

	if failed > 0 {
		return spanErrorf(span, "%d of %d messages failed", failed, len(msgs))
	}
	return nil
}

func spanErrorf(span trace.Span, format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (q *Queue) receiveMessages(ctx context.Context) ([]types.Message, error) {
	res, err := q.SQS.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.QueueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     q.WaitTime,
	})
	if err != nil {
		return nil, err
	}

	return res.Messages, nil
}

func (q *Queue) processMessage(ctx context.Context, msg types.Message) error {
	msgID := aws.ToString(msg.MessageId)
	ctx, span := q.Tracer.Start(ctx, "processMessage", trace.WithAttributes(semconv.MessagingMessageIDKey.String(msgID)))
	defer span.End()

	var req movies.CreateRequest
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &req); err != nil {
		// Redelivering a malformed body can never succeed.
		if derr := q.deleteMessage(ctx, msg.ReceiptHandle); derr != nil {
			return spanErrorf(span, "delete malformed message: %w", derr)
		}
		return spanErrorf(span, "unmarshal movie: %w", err)
	}

	if q.Ledger != nil {
		seen, err := q.Ledger.Seen(ctx, msgID)
		if err != nil {
			return spanErrorf(span, "check ledger: %w", err)
		}
		if seen {
			log.Printf("Message %q already processed", msgID)
			if err := q.deleteMessage(ctx, msg.ReceiptHandle); err != nil {
				return spanErrorf(span, "delete message: %w", err)
			}
			return nil
		}
	}

	created, err := q.createMovie(ctx, req)
	switch {
	case errors.Is(err, errRejected):
		if derr := q.deleteMessage(ctx, msg.ReceiptHandle); derr != nil {
			return spanErrorf(span, "delete rejected message: %w", derr)
		}
		return spanErrorf(span, "create movie: %w", err)
	case err != nil:
		return spanErrorf(span, "create movie: %w", err)
	}

	log.Printf("Created movie %+v from message %q", created, msgID)

	if q.Ledger != nil {
		if err := q.Ledger.Mark(ctx, msgID); err != nil {
			return spanErrorf(span, "mark ledger: %w", err)
		}
	}

	if err := q.deleteMessage(ctx, msg.ReceiptHandle); err != nil {
		return spanErrorf(span, "delete message: %w", err)
	}

	return nil
}

func (q *Queue) createMovie(ctx context.Context, movie movies.CreateRequest) (movies.Movie, error) {
	data, err := json.Marshal(movie)
	if err != nil {
		return movies.Movie{}, fmt.Errorf("encode movie: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.CreateMovieURL, bytes.NewReader(data))
	if err != nil {
		return movies.Movie{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.HTTP.Do(req)
	if err != nil {
		return movies.Movie{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return movies.Movie{}, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return movies.Movie{}, fmt.Errorf("%w: %s", errRejected, bytes.TrimSpace(body))
	case resp.StatusCode/100 != 2:
		return movies.Movie{}, fmt.Errorf("bad response: status code %v", resp.StatusCode)
	}

	var created movies.Movie
	if err := json.Unmarshal(body, &created); err != nil {
		return movies.Movie{}, fmt.Errorf("decode created movie: %w", err)
	}
	return created, nil
}

func (q *Queue) deleteMessage(ctx context.Context, receiptHandle *string) error {
	_, err := q.SQS.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.QueueURL),
		ReceiptHandle: receiptHandle,
	})

	return err
}
