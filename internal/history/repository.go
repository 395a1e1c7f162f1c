package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// GameResult is one finished game as persisted for the leaderboard.
type GameResult struct {
	RoomID       string
	RoomName     string
	WinnerName   string
	PlayerNames  []string
	TurnCount    int
	ShuffleCount int
	StartedAt    time.Time
	EndedAt      time.Time
}

// WinnerRow is one leaderboard entry.
type WinnerRow struct {
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
	LastWinAt  int64  `json:"last_win_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts a finished game keyed by room id. A room plays at most
// one game, so the conflict path only matters for retried writes.
func (r *Repository) SaveResult(ctx context.Context, res *GameResult) error {
	if r == nil || r.db == nil || res == nil {
		return nil
	}
	playersRaw, _ := json.Marshal(res.PlayerNames)
	duration := res.EndedAt.Sub(res.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO uno_games (
	    room_id, room_name, winner_name, players,
	    turn_count, shuffle_count, started_at, ended_at, duration_ms
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9
	  ) ON CONFLICT (room_id) DO UPDATE SET
	    room_name=EXCLUDED.room_name,
	    winner_name=EXCLUDED.winner_name,
	    players=EXCLUDED.players,
	    turn_count=EXCLUDED.turn_count,
	    shuffle_count=EXCLUDED.shuffle_count,
	    started_at=EXCLUDED.started_at,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		res.RoomID, res.RoomName, res.WinnerName, string(playersRaw),
		res.TurnCount, res.ShuffleCount, res.StartedAt, res.EndedAt, duration,
	)
	return err
}

// TopWinners returns the players with the most recorded wins, most recent
// win breaking ties.
func (r *Repository) TopWinners(ctx context.Context, limit int) ([]WinnerRow, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT winner_name, COUNT(*) AS wins, MAX(ended_at) AS last_win
	  FROM uno_games
	  WHERE winner_name <> ''
	  GROUP BY winner_name
	  ORDER BY wins DESC, last_win DESC
	  LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WinnerRow
	for rows.Next() {
		var row WinnerRow
		var last time.Time
		if err := rows.Scan(&row.PlayerName, &row.Wins, &last); err != nil {
			return nil, err
		}
		row.LastWinAt = last.UnixMilli()
		out = append(out, row)
	}
	return out, rows.Err()
}
