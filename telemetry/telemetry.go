// Package telemetry implements the CLI driver's opt-out anonymous usage
// counters (§4.13): one event per command invocation, carrying only the
// command name, a coarse duration bucket, and a result count — never a
// source path, file content, or anything derived from the indexed
// project.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

// Event names fired by the CLI driver's subcommands.
const (
	IndexCommand = "executed_index_command"
	DefineCommand = "executed_define_command"
	TypeCommand   = "executed_type_command"
	ScanCommand   = "executed_scan_command"
)

// PublicKey is the build-time PostHog project key. A missing key disables
// telemetry the same way --disable-metrics does.
var PublicKey string

var enableMetrics bool

// Init records whether telemetry is enabled for this process. Called once
// from the root command after parsing --disable-metrics.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

const configDirName = ".php-langserver"

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

// createEnvFile creates the per-user config file on first run, stamping a
// random anonymous identifier into it.
func createEnvFile() {
	dir, err := configDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry: error getting user home directory:", err)
		return
	}
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); !os.IsNotExist(err) {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "telemetry: error creating config directory:", err)
		return
	}
	env := map[string]string{"uuid": uuid.New().String()}
	if err := godotenv.Write(env, envFile); err != nil {
		fmt.Fprintln(os.Stderr, "telemetry: error writing .env file:", err)
	}
}

// LoadEnvFile ensures the config file exists and loads its identifier into
// the process environment, so ReportEvent can read it back.
func LoadEnvFile() {
	createEnvFile()
	dir, err := configDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(dir, ".env"))
}

// DurationBucket coarsens d into a label suitable for an event payload,
// never the precise duration of an operation over project-specific input.
func DurationBucket(d time.Duration) string {
	switch {
	case d < 100*time.Millisecond:
		return "<100ms"
	case d < time.Second:
		return "<1s"
	case d < 10*time.Second:
		return "<10s"
	default:
		return ">=10s"
	}
}

// ReportEvent fires one opt-out event for command, with its duration
// bucket and result count, when metrics are enabled and a public key is
// configured. Any failure is swallowed: telemetry must never fail a
// command.
func ReportEvent(command string, d time.Duration, resultCount int) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{
		Endpoint: "https://us.i.posthog.com",
	})
	if err != nil {
		return
	}
	defer client.Close()
	_ = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      command,
		Properties: posthog.NewProperties().
			Set("duration_bucket", DurationBucket(d)).
			Set("result_count", resultCount),
	})
}
