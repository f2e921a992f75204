package logger

import (
	"github.com/sirupsen/logrus"
)

// SelectionLogger provides dedicated logging for value-bet selection runs.
type SelectionLogger struct {
	*logrus.Entry
}

// NewSelectionLogger creates a new selection logger.
func NewSelectionLogger(baseLogger *logrus.Logger) *SelectionLogger {
	return &SelectionLogger{
		Entry: baseLogger.WithField("component", "value_bets"),
	}
}

// LogSelection logs the outcome of a selection run.
func (sl *SelectionLogger) LogSelection(matchesEvaluated, candidates, malformedScores, orphanedRecords int, excluded map[string]int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"matches_evaluated": matchesEvaluated,
		"candidates":        candidates,
		"malformed_scores":  malformedScores,
		"orphaned_records":  orphanedRecords,
		"excluded":          excluded,
		"duration_ms":       durationMs,
	}).Info("Value bet selection completed")
}

// LogCacheHit logs a selection served from cache.
func (sl *SelectionLogger) LogCacheHit(candidates int) {
	sl.WithFields(logrus.Fields{
		"candidates": candidates,
		"cached":     true,
	}).Debug("Value bet selection served from cache")
}

// LogRefresh logs a refresh triggered outside a request.
func (sl *SelectionLogger) LogRefresh(trigger string, candidates int, err error) {
	entry := sl.WithFields(logrus.Fields{
		"trigger":    trigger,
		"event_type": "refresh",
		"candidates": candidates,
	})
	if err != nil {
		entry.WithError(err).Error("Value bet refresh failed")
		return
	}
	entry.Info("Value bet refresh completed")
}
