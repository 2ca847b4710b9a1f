package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agis/callay/internal/contract"
)

// LoadSQLite reads events from a bookings table:
//
//	CREATE TABLE bookings (
//	    id TEXT PRIMARY KEY,
//	    group_key TEXT,
//	    title TEXT,
//	    category TEXT,
//	    start_unix INTEGER NOT NULL,
//	    end_unix INTEGER NOT NULL
//	);
//
// Timestamps are unix seconds interpreted in local time. When window is
// bounded, only rows intersecting it are returned.
func LoadSQLite(ctx context.Context, path string, window Window) ([]contract.Event, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	query := `SELECT id, group_key, title, category, start_unix, end_unix FROM bookings`
	var args []any
	if !window.From.IsZero() && !window.To.IsZero() {
		query += ` WHERE start_unix < ? AND end_unix > ?`
		args = append(args, window.To.Unix(), window.From.Unix())
	}
	query += ` ORDER BY start_unix, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	var out []contract.Event
	for rows.Next() {
		var (
			ev                 contract.Event
			category           string
			startUnix, endUnix int64
		)
		if err := rows.Scan(&ev.ID, &ev.GroupKey, &ev.Title, &category, &startUnix, &endUnix); err != nil {
			return nil, err
		}
		ev.Category = contract.ParseCategory(category)
		ev.Start = time.Unix(startUnix, 0).In(time.Local)
		ev.End = time.Unix(endUnix, 0).In(time.Local)
		out = append(out, ev)
	}
	return out, rows.Err()
}
