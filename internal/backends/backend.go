package backends

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"irmend/internal/config"
	"irmend/internal/ir"
)

// BlockKind selects which repair grammar a request is about.
type BlockKind string

// Supported block kinds.
const (
	KindChart BlockKind = "chart"
	KindTable BlockKind = "table"
)

// RepairRequest carries one malformed block to a backend.
type RepairRequest struct {
	Kind   BlockKind
	Block  ir.Block
	Errors []string
}

// RepairBackend is the external repair service abstraction.
type RepairBackend interface {
	Repair(ctx context.Context, req RepairRequest) (ir.Block, error)
	Name() string
}

// New creates a backend from a config entry. The API key is read from the
// entry's environment variable at construction time.
func New(cfg config.Backend) (RepairBackend, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAI(cfg)
	case "anthropic":
		return NewAnthropic(cfg)
	case "gemini", "google":
		return NewGemini(cfg)
	case "ollama", "lmstudio":
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown backend provider: %s", cfg.Provider)
	}
}

// FromConfig builds the ordered backend chain from config entries. Entries
// that require an API key and don't have one are skipped with a log line
// rather than failing the whole chain; a partially configured environment
// still repairs with whatever backends it has.
func FromConfig(entries []config.Backend, log *zap.Logger) []RepairBackend {
	chain := make([]RepairBackend, 0, len(entries))
	for _, entry := range entries {
		if entry.APIKeyEnv != "" && os.Getenv(entry.APIKeyEnv) == "" {
			log.Info("skipping repair backend, API key not set",
				zap.String("backend", entry.Name),
				zap.String("env", entry.APIKeyEnv))
			continue
		}
		backend, err := New(entry)
		if err != nil {
			log.Warn("skipping repair backend",
				zap.String("backend", entry.Name),
				zap.Error(err))
			continue
		}
		log.Info("repair backend ready",
			zap.String("backend", backend.Name()),
			zap.String("model", entry.Model))
		chain = append(chain, backend)
	}
	return chain
}

func backendName(cfg config.Backend, fallback string) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return fallback
}
