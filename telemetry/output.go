package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/petri/config"
)

// Output file names inside the output directory.
const (
	StatsFile     = "stats.csv"
	WindowsFile   = "windows.csv"
	PerfFile      = "perf.csv"
	BookmarksFile = "bookmarks.csv"
	ConfigFile    = "config.yaml"
	SnapshotFile  = "snapshot.json"
)

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir string

	stats     csvSink
	windows   csvSink
	perf      csvSink
	bookmarks csvSink
}

// csvSink appends gocsv records to a file, writing the header once.
type csvSink struct {
	file          *os.File
	headerWritten bool
}

func (s *csvSink) write(records any) error {
	if !s.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, s.file); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.file)
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	sinks := []struct {
		name string
		sink *csvSink
	}{
		{StatsFile, &om.stats},
		{WindowsFile, &om.windows},
		{PerfFile, &om.perf},
		{BookmarksFile, &om.bookmarks},
	}
	for _, s := range sinks {
		f, err := os.Create(filepath.Join(dir, s.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", s.name, err)
		}
		s.sink.file = f
	}

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteStep appends a step record to stats.csv.
func (om *OutputManager) WriteStep(r StepRecord) error {
	if om == nil {
		return nil
	}
	if err := om.stats.write([]StepRecord{r}); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WriteWindow appends a window summary to windows.csv.
func (om *OutputManager) WriteWindow(w WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.windows.write([]WindowStats{w}); err != nil {
		return fmt.Errorf("writing window: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteSnapshot saves v as snapshot.json in the output directory.
func (om *OutputManager) WriteSnapshot(v any) error {
	if om == nil {
		return nil
	}
	return SaveSnapshot(v, filepath.Join(om.dir, SnapshotFile))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var errs []error
	for _, s := range []*csvSink{&om.stats, &om.windows, &om.perf, &om.bookmarks} {
		if s.file != nil {
			errs = append(errs, s.file.Close())
			s.file = nil
		}
	}
	return errors.Join(errs...)
}
