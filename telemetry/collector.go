// Package telemetry accumulates per-episode results and produces
// cross-episode summaries and CSV output.
package telemetry

import "github.com/pthm-cable/ambush/game"

// EpisodeStats is one finished episode's record.
type EpisodeStats struct {
	Episode     int     `csv:"episode"`
	Seed        int64   `csv:"seed"`
	Steps       int     `csv:"steps"`
	Kills       int     `csv:"kills"`
	GuardsAlive int     `csv:"guards_alive"`
	Reward      float64 `csv:"reward"`
	Outcome     string  `csv:"outcome"`
}

// Outcome labels.
const (
	OutcomeWin     = "win"
	OutcomeDeath   = "death"
	OutcomeTimeout = "timeout"
)

// Collector gathers episode records over a run.
type Collector struct {
	episodes []EpisodeStats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordEpisode converts a final step Info into an episode record and
// stores it.
func (c *Collector) RecordEpisode(episode int, seed int64, info game.Info) EpisodeStats {
	outcome := OutcomeTimeout
	switch {
	case info.Win:
		outcome = OutcomeWin
	case info.PlayerDead:
		outcome = OutcomeDeath
	}
	s := EpisodeStats{
		Episode:     episode,
		Seed:        seed,
		Steps:       info.Steps,
		Kills:       info.Kills,
		GuardsAlive: info.GuardsAlive,
		Reward:      info.TotalReward,
		Outcome:     outcome,
	}
	c.episodes = append(c.episodes, s)
	return s
}

// Episodes returns all recorded episodes.
func (c *Collector) Episodes() []EpisodeStats {
	return c.episodes
}
