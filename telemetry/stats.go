package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate statistics over a set of episodes.
type Summary struct {
	Episodes int

	WinRate float64

	RewardMean float64
	RewardStd  float64
	RewardP10  float64
	RewardP50  float64
	RewardP90  float64

	StepsMean float64
	KillsMean float64
}

// Summarize computes run statistics over the recorded episodes.
func Summarize(episodes []EpisodeStats) Summary {
	s := Summary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	rewards := make([]float64, len(episodes))
	steps := make([]float64, len(episodes))
	kills := make([]float64, len(episodes))
	wins := 0
	for i, ep := range episodes {
		rewards[i] = ep.Reward
		steps[i] = float64(ep.Steps)
		kills[i] = float64(ep.Kills)
		if ep.Outcome == OutcomeWin {
			wins++
		}
	}

	s.WinRate = float64(wins) / float64(len(episodes))
	s.RewardMean = stat.Mean(rewards, nil)
	s.RewardStd = stat.StdDev(rewards, nil)
	s.StepsMean = stat.Mean(steps, nil)
	s.KillsMean = stat.Mean(kills, nil)

	sort.Float64s(rewards)
	s.RewardP10 = stat.Quantile(0.10, stat.Empirical, rewards, nil)
	s.RewardP50 = stat.Quantile(0.50, stat.Empirical, rewards, nil)
	s.RewardP90 = stat.Quantile(0.90, stat.Empirical, rewards, nil)

	return s
}

// Log emits the summary as structured key/value pairs.
func (s Summary) Log(log *slog.Logger) {
	log.Info("run summary",
		"episodes", s.Episodes,
		"win_rate", s.WinRate,
		"reward_mean", s.RewardMean,
		"reward_std", s.RewardStd,
		"reward_p10", s.RewardP10,
		"reward_p50", s.RewardP50,
		"reward_p90", s.RewardP90,
		"steps_mean", s.StepsMean,
		"kills_mean", s.KillsMean,
	)
}
