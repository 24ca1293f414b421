// internal/database/results.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/larsmn/olsen/internal/game"
)

// RecordMatchResult persists the final outcome of a finished game. Only the
// outcome is archived; live room state never touches the database.
func RecordMatchResult(ctx context.Context, res game.MatchResult) error {
	if DB == nil {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertMatch := `
			INSERT INTO matches (room_code, winner_id, winner_name, finished_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (room_code) DO UPDATE
			SET winner_id = $2, winner_name = $3, finished_at = now()
		`
		if _, e := tx.Exec(ctx, upsertMatch, res.RoomID, res.WinnerID, res.WinnerName); e != nil {
			return e
		}

		for pid, count := range res.HandCounts {
			q := `
				INSERT INTO match_players (room_code, player_id, player_name, cards_left)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (room_code, player_id)
				DO UPDATE SET cards_left = $4
			`
			if _, e := tx.Exec(ctx, q, res.RoomID, pid, res.Names[pid], count); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert match result: %w", err)
	}
	return nil
}
