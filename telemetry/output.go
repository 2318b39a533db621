package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ambush/config"
)

// OutputManager writes run artifacts into an output directory.
type OutputManager struct {
	dir          string
	episodesFile *os.File

	episodesHeaderWritten bool
}

// NewOutputManager creates the output directory and its files.
// Returns nil if dir is empty (output disabled); the nil receiver is
// safe to use.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "episodes.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating episodes.csv: %w", err)
	}
	om.episodesFile = f

	return om, nil
}

// WriteConfig saves the configuration snapshot as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteEpisode appends one episode record to episodes.csv.
func (om *OutputManager) WriteEpisode(stats EpisodeStats) error {
	if om == nil {
		return nil
	}

	records := []EpisodeStats{stats}
	if !om.episodesHeaderWritten {
		if err := gocsv.Marshal(records, om.episodesFile); err != nil {
			return fmt.Errorf("writing episodes: %w", err)
		}
		om.episodesHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.episodesFile); err != nil {
		return fmt.Errorf("writing episodes: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.episodesFile.Close()
}
