package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/config"
	"github.com/agentbid/auction/policy"
	"github.com/agentbid/auction/simulation"
	"github.com/agentbid/auction/visualization"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "", "path to a yaml config file")
var agents = flag.String("agents", "", "comma separated agent ids to train, e.g. alpha_u1,gamma_u1")
var episodes = flag.Int("episodes", 500, "episodes per agent")
var maxSteps = flag.Int("maxSteps", 0, "step cap per episode (0 uses the trainer default)")
var parallel = flag.Int("parallel", 2, "agents trained at the same time")
var reportDir = flag.String("reportDir", "", "write a training report svg per agent into this directory")

func main() {
	flag.Parse()

	if *agents == "" {
		panic("need agents")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := lager.NewLogger("pretrain")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, lager.INFO))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := cfg.Models.OpenModelStore(ctx, logger)
	if err != nil {
		logger.Fatal("failed-to-open-model-store", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)

	for _, agentID := range strings.Split(*agents, ",") {
		agentID := strings.TrimSpace(agentID)
		if agentID == "" {
			continue
		}
		g.Go(func() error {
			return train(gctx, logger, cfg, store, agentID)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("pretraining-stopped", err)
		os.Exit(1)
	}
}

func train(ctx context.Context, logger lager.Logger, cfg config.Config, store auctiontypes.ModelStore, agentID string) error {
	logger = logger.Session("agent", lager.Data{"agent-id": agentID})
	key := policy.ModelKey(agentID)

	policyConfig := cfg.Policy
	if policyConfig.Seed == 0 {
		policyConfig.Seed = time.Now().UnixNano()
	}

	dqn := policy.New(policyConfig)
	blob, found, err := store.Load(ctx, key)
	switch {
	case err != nil:
		logger.Error("failed-to-load-model", err)
	case found:
		if err := dqn.LoadParameters(blob); err != nil {
			logger.Error("discarding-incompatible-model", err)
			dqn = policy.New(policyConfig)
		} else {
			logger.Info("resuming-from-saved-model")
		}
	}

	env := simulation.NewEnvironment(cfg.Simulation)
	reports, err := policy.NewTrainer(logger, dqn, store, key, *maxSteps).Train(ctx, env, *episodes)

	if *reportDir != "" && len(reports) > 0 {
		if reportErr := writeReport(*reportDir, agentID, reports); reportErr != nil {
			logger.Error("failed-to-write-report", reportErr)
		}
	}
	return err
}

func writeReport(dir, agentID string, reports []policy.EpisodeReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, agentID+".svg"))
	if err != nil {
		return err
	}
	defer f.Close()

	rewards := make([]float64, len(reports))
	for i, report := range reports {
		rewards[i] = report.TotalReward
	}

	visualization.WriteTrainingReport(f, fmt.Sprintf("%s: %d episodes", agentID, len(reports)), rewards)
	return nil
}
