package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction        BookmarkType = "extinction"
	BookmarkPopulationBoom    BookmarkType = "population_boom"
	BookmarkPopulationCrash   BookmarkType = "population_crash"
	BookmarkDiversityCollapse BookmarkType = "diversity_collapse"
	BookmarkSteadyState       BookmarkType = "steady_state"
)

// Bookmark marks a notable window of a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Iteration   int          `csv:"iteration"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"iteration", b.Iteration,
		"description", b.Description,
	)
}

// BookmarkDetector watches window statistics for notable population events.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peakPopulation int
	steadyWindows  int
	extinct        bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkExtinction(stats))
	if len(bd.getHistory()) > 0 {
		add(bd.checkBoom(stats))
		add(bd.checkCrash(stats))
		add(bd.checkDiversityCollapse(stats))
		add(bd.checkSteadyState(stats))
	}

	bd.addToHistory(stats)
	if stats.Population > bd.peakPopulation {
		bd.peakPopulation = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 || bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Iteration:   stats.WindowEnd,
		Description: fmt.Sprintf("Population died out after %d deaths in the last window", stats.Deaths),
	}
}

func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += float64(h.Population)
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Population) > avg*2 && stats.Population >= 10 {
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Population %d is %.1fx average (%.1f)", stats.Population, float64(stats.Population)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.peakPopulation == 0 || stats.Population == 0 {
		return nil
	}

	drop := 1 - float64(stats.Population)/float64(bd.peakPopulation)
	if drop > 0.30 && stats.Population < bd.peakPopulation-10 {
		oldPeak := bd.peakPopulation
		bd.peakPopulation = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDiversityCollapse(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Population < 2 {
		return nil
	}

	values := make([]float64, len(history))
	for i, h := range history {
		values[i] = h.Diversity
	}
	avg := stat.Mean(values, nil)
	if avg == 0 {
		return nil
	}

	if stats.Diversity < avg*0.5 {
		return &Bookmark{
			Type:        BookmarkDiversityCollapse,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Diversity %.3f fell below half the average (%.3f)", stats.Diversity, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Population < 10 {
		bd.steadyWindows = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	values := make([]float64, len(recent))
	for i, h := range recent {
		values[i] = float64(h.Population)
	}
	mean, variance := stat.PopMeanVariance(values, nil)

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}

	if bd.steadyWindows == 5 {
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Population steady around %d over 5+ windows", stats.Population),
		}
	}
	return nil
}
