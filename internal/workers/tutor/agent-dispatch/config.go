// internal/workers/tutor/agent-dispatch/config.go
package agentdispatch

import (
	"os"
	"time"

	"gyaansetu-gateway/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	// Getenv supplies backend credentials for each job.
	Getenv func(string) string
}

func LoadConfig(appCfg *config.Config) *Config {
	wc := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		Getenv:        os.Getenv,
	}
}
