// Package arbiter parses arbiter flags and runs the conflict resolution
// engine as a one-shot command: detect-and-route a tick's actions, or apply
// a master ruling to a queued conflict.
package arbiter

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	entrypoint "github.com/louisbranch/contested.space/internal/platform/cmd"
	server "github.com/louisbranch/contested.space/internal/services/arbiter/app"
	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
)

// Config holds arbiter command configuration.
type Config struct {
	DBPath  string `env:"CONTESTED_SPACE_ARBITER_DB_PATH" envDefault:"arbiter.db"`
	Rules   string `env:"CONTESTED_SPACE_ARBITER_RULES" envDefault:"rules.yaml"`
	GuildID string `env:"CONTESTED_SPACE_ARBITER_GUILD_ID" envDefault:"default"`

	// Detect mode: path to a JSON action map, "-" for stdin.
	Actions string

	// List mode: print the guild's conflicts awaiting manual resolution.
	List bool

	// Resolve mode: the queued conflict to rule on.
	Resolve     string
	Outcome     string
	Winner      string
	Description string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the arbiter SQLite database")
	fs.StringVar(&cfg.Rules, "rules", cfg.Rules, "Path to the conflict rules YAML file")
	fs.StringVar(&cfg.GuildID, "guild", cfg.GuildID, "Guild scope for rule lookups")
	fs.StringVar(&cfg.Actions, "actions", "", "Path to a JSON tick action map to detect conflicts in (- for stdin)")
	fs.BoolVar(&cfg.List, "list", false, "List the guild's conflicts awaiting manual resolution")
	fs.StringVar(&cfg.Resolve, "resolve", "", "Conflict id to resolve with a master ruling")
	fs.StringVar(&cfg.Outcome, "outcome", "", "Outcome type for the master ruling")
	fs.StringVar(&cfg.Winner, "winner", "", "Winning entity id for the master ruling")
	fs.StringVar(&cfg.Description, "description", "", "Narration override for the master ruling")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the arbiter command.
func Run(ctx context.Context, cfg Config) error {
	return RunWithOutput(ctx, cfg, os.Stdout, os.Stdin)
}

// RunWithOutput executes the arbiter command writing results to out.
func RunWithOutput(ctx context.Context, cfg Config, out io.Writer, in io.Reader) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceArbiter, func(ctx context.Context) error {
		service, err := server.New(server.Options{
			DBPath:    cfg.DBPath,
			RulesPath: cfg.Rules,
			Logger:    log.Default(),
		})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := service.Close(); closeErr != nil {
				log.Printf("close service: %v", closeErr)
			}
		}()

		switch {
		case cfg.Resolve != "":
			return runResolve(ctx, service, cfg, out)
		case cfg.List:
			return runList(ctx, service, cfg, out)
		case cfg.Actions != "":
			return runDetect(ctx, service, cfg, out, in)
		default:
			return fmt.Errorf("one of -actions, -list, or -resolve is required")
		}
	})
}

func runDetect(ctx context.Context, service *server.Service, cfg Config, out io.Writer, in io.Reader) error {
	actions, err := readActions(cfg.Actions, in)
	if err != nil {
		return err
	}
	results, err := service.Engine.DetectAndRoute(ctx, actions, cfg.GuildID)
	if err != nil {
		return err
	}
	return writeJSON(out, results)
}

func runList(ctx context.Context, service *server.Service, cfg Config, out io.Writer) error {
	conflicts, err := service.PendingConflicts(ctx, cfg.GuildID)
	if err != nil {
		return err
	}
	return writeJSON(out, conflicts)
}

func runResolve(ctx context.Context, service *server.Service, cfg Config, out io.Writer) error {
	if cfg.Outcome == "" {
		return fmt.Errorf("-outcome is required with -resolve")
	}
	result, err := service.Engine.ResolveMasterDecision(ctx, cfg.Resolve, domain.MasterDecision{
		OutcomeType: cfg.Outcome,
		WinnerID:    cfg.Winner,
		Description: cfg.Description,
	})
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func readActions(path string, in io.Reader) (map[string][]domain.Action, error) {
	var content []byte
	var err error
	if path == "-" {
		content, err = io.ReadAll(in)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}

	var actions map[string][]domain.Action
	if err := json.Unmarshal(content, &actions); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	return actions, nil
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
