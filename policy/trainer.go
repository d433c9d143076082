package policy

import (
	"context"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
)

type Environment interface {
	Reset() []float64
	Step(action int) (nextState []float64, reward float64, done bool)
}

type EpisodeReport struct {
	Episode     int       `json:"episode"`
	TotalReward float64   `json:"totalReward"`
	Steps       int       `json:"steps"`
	Loss        LossStats `json:"loss"`
}

type Trainer struct {
	logger   lager.Logger
	policy   *DQN
	store    auctiontypes.ModelStore
	key      string
	maxSteps int
}

func NewTrainer(logger lager.Logger, policy *DQN, store auctiontypes.ModelStore, key string, maxSteps int) *Trainer {
	if maxSteps <= 0 {
		maxSteps = 1000
	}
	return &Trainer{
		logger:   logger.Session("trainer", lager.Data{"key": key}),
		policy:   policy,
		store:    store,
		key:      key,
		maxSteps: maxSteps,
	}
}

// Train runs whole episodes against env, learning after every step and
// saving the parameters at the end of each episode.
func (t *Trainer) Train(ctx context.Context, env Environment, episodes int) ([]EpisodeReport, error) {
	reports := make([]EpisodeReport, 0, episodes)

	for e := 1; e <= episodes; e++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		state := env.Reset()
		report := EpisodeReport{Episode: e}
		losses := []float64{}

		for done := false; !done && report.Steps < t.maxSteps; report.Steps++ {
			action, _, err := t.policy.Act(state)
			if err != nil {
				return reports, err
			}

			nextState, reward, stepDone := env.Step(action)
			err = t.policy.Remember(auctiontypes.Transition{
				State:     state,
				Action:    action,
				Reward:    reward,
				NextState: nextState,
				Done:      stepDone,
			})
			if err != nil {
				return reports, err
			}

			loss, learned, err := t.policy.Replay()
			if err != nil {
				return reports, err
			}
			if learned {
				losses = append(losses, loss)
			}

			state = nextState
			report.TotalReward += reward
			done = stepDone
		}

		report.Loss = NewLossStats(losses, t.policy.Epsilon(), t.policy.LearnSteps())
		reports = append(reports, report)

		t.logger.Info("episode-finished", lager.Data{
			"episode":  e,
			"reward":   report.TotalReward,
			"steps":    report.Steps,
			"epsilon":  report.Loss.Epsilon,
			"avg-loss": report.Loss.Mean,
		})

		if t.store == nil {
			continue
		}
		blob, err := t.policy.Parameters()
		if err == nil {
			err = t.store.Save(ctx, t.key, blob)
		}
		if err != nil {
			t.logger.Error("failed-to-save-model", err, lager.Data{"episode": e})
		}
	}

	return reports, nil
}
