package generator

import (
	"log"
	"time"
)

// LogRequest logs a call being made to a provider.
func LogRequest(provider, operation, model, subject string) {
	log.Printf("[%s] %s model=%s subject=%q", provider, operation, model, subject)
}

// LogResponse logs a completed provider call.
func LogResponse(provider, operation string, duration time.Duration, size int) {
	log.Printf("[%s] %s done duration=%dms bytes=%d",
		provider, operation, duration.Milliseconds(), size)
}

// LogError logs a failed provider call.
func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}
