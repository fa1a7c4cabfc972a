package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

// TimerStart starts the statement timer.
func (d *DB) TimerStart() {
	d.timeDiff = 0
	d.timeStart = time.Now()
}

// TimerStop stops the statement timer.
func (d *DB) TimerStop() {
	d.timeDiff = time.Since(d.timeStart)
	d.timeStart = time.Time{}
}

// TimerDuration returns the last timed duration in seconds with the given
// number of decimals.
func (d *DB) TimerDuration(decimals int) string {
	return strconv.FormatFloat(d.timeDiff.Seconds(), 'f', decimals, 64)
}

// GetStatistics returns the number of statements run through this DB under
// "Query Count" merged with the statistics reported by the engine. When the
// engine reports nothing the query count is still returned along with the
// error.
func (d *DB) GetStatistics(ctx context.Context) (map[string]string, error) {
	d.errs.Reset()
	if d.engine == nil {
		return nil, d.fail(core.ErrNoConnection)
	}

	info := map[string]string{"Query Count": strconv.Itoa(d.queryCount)}
	stats, err := d.engine.Stats(ctx)
	if err != nil {
		return info, d.fail(fmt.Errorf("%w: %w", core.ErrStatistics, err))
	}
	if len(stats) == 0 {
		return info, d.fail(core.ErrStatistics)
	}
	for k, v := range stats {
		if k == "Query Count" {
			continue
		}
		info[k] = v
	}
	return info, nil
}

// DyingMessage builds the message Kill emits: message followed by the
// recorded error. With prepend false a non-empty message is returned alone.
// In development mode the offending SQL is included.
func (d *DB) DyingMessage(message string, prepend bool) string {
	if message != "" {
		if !prepend {
			return message
		}
		message += " "
	}
	if d.cfg.Development {
		message += "Offending SQL query: " + d.lastSQL + "\nError message: "
	}
	return message + d.errs.Error()
}

// Kill logs DyingMessage and exits the process.
func (d *DB) Kill(message string, prepend bool) {
	d.cfg.Logger.Fatalln(d.DyingMessage(message, prepend))
}
