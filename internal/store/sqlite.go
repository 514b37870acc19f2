// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Running batch operations (ApplyHole, ResetGame) inside one transaction.
//
// winner_ids is stored as a JSON array in a TEXT column.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/golf-wolf/assets"
	"github.com/robalobadob/golf-wolf/internal/game"
)

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path and
// applies pending migrations.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// openDB ensures the parent directory exists for relative paths
// (e.g. ./data/wolf.db) and configures busy timeout, WAL and foreign keys.
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// One writer keeps transactions serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies embedded migrations in order, each inside its own
// transaction, skipping those already recorded in _migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ------------------------------- games --------------------------------------

func (s *sqliteStore) CreateGame(ctx context.Context) (game.Game, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO games (status, current_hole) VALUES (?, 1)`, game.StatusSetup)
	if err != nil {
		return game.Game{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Game{}, err
	}
	return game.Game{ID: id, Status: game.StatusSetup, CurrentHole: 1}, nil
}

func (s *sqliteStore) GetGame(ctx context.Context, id int64) (game.Game, error) {
	return getGame(ctx, s.db, id)
}

func getGame(ctx context.Context, q queryer, id int64) (game.Game, error) {
	var g game.Game
	err := q.QueryRowContext(ctx, `SELECT id, status, current_hole FROM games WHERE id=?`, id).
		Scan(&g.ID, &g.Status, &g.CurrentHole)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, game.NotFound("game", id)
	}
	return g, err
}

func (s *sqliteStore) SetGameStatus(ctx context.Context, id int64, status game.Status) (game.Game, error) {
	if err := mustAffect(s.db.ExecContext(ctx, `UPDATE games SET status=? WHERE id=?`, status, id)); err != nil {
		return game.Game{}, notFoundAs(err, "game", id)
	}
	return s.GetGame(ctx, id)
}

func (s *sqliteStore) SetGameHole(ctx context.Context, id int64, hole int) (game.Game, error) {
	if err := mustAffect(s.db.ExecContext(ctx, `UPDATE games SET current_hole=? WHERE id=?`, hole, id)); err != nil {
		return game.Game{}, notFoundAs(err, "game", id)
	}
	return s.GetGame(ctx, id)
}

// ------------------------------ players -------------------------------------

func (s *sqliteStore) CreatePlayer(ctx context.Context, gameID int64, np game.NewPlayer) (game.Player, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players (game_id, name, handicap, score) VALUES (?, ?, ?, 0)`,
		gameID, np.Name, np.Handicap)
	if err != nil {
		return game.Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Player{}, err
	}
	return game.Player{ID: id, GameID: gameID, Name: np.Name, Handicap: np.Handicap}, nil
}

func (s *sqliteStore) GetPlayer(ctx context.Context, id int64) (game.Player, error) {
	var p game.Player
	err := s.db.QueryRowContext(ctx,
		`SELECT id, game_id, name, handicap, score FROM players WHERE id=?`, id).
		Scan(&p.ID, &p.GameID, &p.Name, &p.Handicap, &p.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Player{}, game.NotFound("player", id)
	}
	return p, err
}

func (s *sqliteStore) ListPlayers(ctx context.Context, gameID int64) ([]game.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, name, handicap, score FROM players WHERE game_id=? ORDER BY id ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Player{}
	for rows.Next() {
		var p game.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.Handicap, &p.Score); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetPlayerScore(ctx context.Context, id int64, score int) (game.Player, error) {
	if err := mustAffect(s.db.ExecContext(ctx, `UPDATE players SET score=? WHERE id=?`, score, id)); err != nil {
		return game.Player{}, notFoundAs(err, "player", id)
	}
	return s.GetPlayer(ctx, id)
}

func (s *sqliteStore) DeletePlayer(ctx context.Context, id int64) error {
	if err := mustAffect(s.db.ExecContext(ctx, `DELETE FROM players WHERE id=?`, id)); err != nil {
		return notFoundAs(err, "player", id)
	}
	return nil
}

// ---------------------------- hole results ----------------------------------

func (s *sqliteStore) CreateHoleResult(ctx context.Context, r game.HoleResult) (game.HoleResult, error) {
	return insertResult(ctx, s.db, r)
}

func insertResult(ctx context.Context, q queryer, r game.HoleResult) (game.HoleResult, error) {
	winners := r.WinnerIDs
	if winners == nil {
		winners = []int64{}
	}
	enc, err := json.Marshal(winners)
	if err != nil {
		return game.HoleResult{}, err
	}
	var partner sql.NullInt64
	if r.PartnerID != nil {
		partner = sql.NullInt64{Int64: *r.PartnerID, Valid: true}
	}
	res, err := q.ExecContext(ctx, `
        INSERT INTO hole_results
            (game_id, hole_number, wolf_id, partner_id, is_lone_wolf, winner_ids)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.GameID, r.HoleNumber, r.WolfID, partner, r.IsLoneWolf, string(enc),
	)
	if err != nil {
		return game.HoleResult{}, err
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return game.HoleResult{}, err
	}
	r.WinnerIDs = append([]int64{}, winners...)
	return r, nil
}

const resultCols = `id, game_id, hole_number, wolf_id, partner_id, is_lone_wolf, winner_ids`

type rowScanner interface{ Scan(dest ...any) error }

func scanResult(row rowScanner) (game.HoleResult, error) {
	var (
		r       game.HoleResult
		partner sql.NullInt64
		winners string
	)
	if err := row.Scan(&r.ID, &r.GameID, &r.HoleNumber, &r.WolfID, &partner, &r.IsLoneWolf, &winners); err != nil {
		return game.HoleResult{}, err
	}
	if partner.Valid {
		p := partner.Int64
		r.PartnerID = &p
	}
	r.WinnerIDs = []int64{}
	if err := json.Unmarshal([]byte(winners), &r.WinnerIDs); err != nil {
		return game.HoleResult{}, fmt.Errorf("decode winner_ids of result %d: %w", r.ID, err)
	}
	return r, nil
}

func (s *sqliteStore) ListHoleResults(ctx context.Context, gameID int64) ([]game.HoleResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultCols+` FROM hole_results WHERE game_id=? ORDER BY hole_number ASC, id ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.HoleResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetHoleResult(ctx context.Context, gameID int64, hole int) (game.HoleResult, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx,
		`SELECT `+resultCols+` FROM hole_results WHERE game_id=? AND hole_number=? ORDER BY id ASC LIMIT 1`,
		gameID, hole))
	if errors.Is(err, sql.ErrNoRows) {
		return game.HoleResult{}, game.NotFound("hole result", int64(hole))
	}
	return r, err
}

// ------------------------------ batches -------------------------------------

func (s *sqliteStore) ApplyHole(ctx context.Context, r game.HoleResult, deltas []game.Delta, next game.Game) (game.HoleResult, error) {
	var saved game.HoleResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if saved, err = insertResult(ctx, tx, r); err != nil {
			if isUniqueViolation(err) {
				return holeRecorded(r)
			}
			return err
		}
		for _, d := range deltas {
			if err := mustAffect(tx.ExecContext(ctx,
				`UPDATE players SET score = score + ? WHERE id=?`, d.Points, d.PlayerID)); err != nil {
				return notFoundAs(err, "player", d.PlayerID)
			}
		}
		if err := mustAffect(tx.ExecContext(ctx,
			`UPDATE games SET status=?, current_hole=? WHERE id=?`, next.Status, next.CurrentHole, next.ID)); err != nil {
			return notFoundAs(err, "game", next.ID)
		}
		return nil
	})
	return saved, err
}

func (s *sqliteStore) ResetGame(ctx context.Context, id int64) (game.Game, error) {
	var g game.Game
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := getGame(ctx, tx, id)
		if err != nil {
			return err
		}
		g = game.Reset(cur)
		if _, err := tx.ExecContext(ctx,
			`UPDATE games SET status=?, current_hole=? WHERE id=?`, g.Status, g.CurrentHole, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE players SET score=0 WHERE game_id=?`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM hole_results WHERE game_id=?`, id)
		return err
	})
	return g, err
}

// inTx runs fn in a transaction, rolling back on any error.
func (s *sqliteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("rollback")
		}
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// errNoRows marks an UPDATE/DELETE that matched nothing.
var errNoRows = errors.New("no rows affected")

func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func notFoundAs(err error, kind string, id int64) error {
	if errors.Is(err, errNoRows) {
		return game.NotFound(kind, id)
	}
	return err
}
