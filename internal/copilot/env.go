package copilot

import (
	"fmt"
	"os"
)

// ServiceName returns "app-env-svc" from the Copilot environment, or
// defaultName when not running under Copilot.
func ServiceName(defaultName string) string {
	app, ok := os.LookupEnv("COPILOT_APPLICATION_NAME")
	if !ok {
		return defaultName
	}

	env, ok := os.LookupEnv("COPILOT_ENVIRONMENT_NAME")
	if !ok {
		return defaultName
	}

	svc, ok := os.LookupEnv("COPILOT_SERVICE_NAME")
	if !ok {
		return defaultName
	}

	return fmt.Sprintf("%s-%s-%s", app, env, svc)
}

func App() string {
	return os.Getenv("COPILOT_APPLICATION_NAME")
}

func Environment() string {
	return os.Getenv("COPILOT_ENVIRONMENT_NAME")
}

// QueueURI is the url of the service's SQS queue, injected by Copilot for
// worker services.
func QueueURI() string {
	return os.Getenv("COPILOT_QUEUE_URI")
}

// Lookup returns the value of key, or def when it is unset or empty.
func Lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// TracingEnabled reports whether traces should be exported. Set
// MOVIES_TRACING=off to run without a collector.
func TracingEnabled() bool {
	return os.Getenv("MOVIES_TRACING") != "off"
}
