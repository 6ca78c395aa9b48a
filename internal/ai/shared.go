package ai

import (
	"log/slog"
	"sync"
)

//nolint:gochecknoglobals // process-wide client, guarded by sharedMu.
var (
	sharedMu     sync.Mutex
	sharedClient *OpenAIClient
)

// Shared returns the process-wide client, building it from cfg on the first successful call. Later calls return the
// same client and ignore cfg until [Teardown] is called.
func Shared(cfg Config, logger *slog.Logger) (*OpenAIClient, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedClient != nil {
		return sharedClient, nil
	}
	c, err := NewOpenAIClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	sharedClient = c
	return sharedClient, nil
}

// Teardown drops the process-wide client so that the next [Shared] call builds a new one.
func Teardown() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedClient = nil
}
