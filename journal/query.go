package journal

import (
	"context"
	"time"
)

// ListTradesClosedBetween returns trades of userID whose exit time is
// within [start, end), oldest exit first.
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, userID string, start, end time.Time) ([]Trade, error) {
	return j.queryTrades(ctx, `SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND status = ? AND exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC, trade_id ASC`,
		userID, string(Closed), start.UnixMilli(), end.UnixMilli())
}

// DayBounds returns [start, end) of the calendar day in loc.
func DayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
