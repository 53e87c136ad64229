package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/film-archive-api/internal/model"
)

// FilmRepo presents the film aggregate (one `films` row and its eight
// dependent record sets) as a single entity. Every write runs in one
// transaction. No other component writes to the film tables.
type FilmRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewFilmRepo constructs a FilmRepo over the provided connection pool.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts the film row and its child sets. The new film id is
// returned only after commit; on any failure nothing is persisted.
func (r *FilmRepo) Create(ctx context.Context, in *model.FilmInput) (uint64, error) {
	var id uint64
	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		now := r.now()
		const q = `INSERT INTO films (title, release_year, runtime, synopsis, av_annotate_link, created_at, updated_at)
		           VALUES (?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, in.Title, in.ReleaseYear, in.Runtime, in.Synopsis, in.AVAnnotateLink, now, now)
		if err != nil {
			return fmt.Errorf("insert film: %w", err)
		}
		lastID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("film id: %w", err)
		}
		id = uint64(lastID)

		for _, cs := range childSets {
			if err := cs.insert(ctx, tx, id, in); err != nil {
				return fmt.Errorf("insert %s: %w", cs.table, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the aggregate: the film row is rewritten first, then every
// child set is deleted and re-inserted from in with the same policy as
// Create. ErrFilmNotFound is returned, and nothing changes, when no live
// film has the id.
func (r *FilmRepo) Update(ctx context.Context, id uint64, in *model.FilmInput) error {
	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		const q = `UPDATE films
		           SET title = ?, release_year = ?, runtime = ?, synopsis = ?, av_annotate_link = ?, updated_at = ?
		           WHERE film_id = ? AND deleted_at IS NULL`
		res, err := tx.ExecContext(ctx, q, in.Title, in.ReleaseYear, in.Runtime, in.Synopsis, in.AVAnnotateLink, r.now(), id)
		if err != nil {
			return fmt.Errorf("update film: %w", err)
		}
		if err := requireRow(res, ErrFilmNotFound); err != nil {
			return err
		}

		for _, cs := range childSets {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+cs.table+" WHERE film_id = ?", id); err != nil {
				return fmt.Errorf("clear %s: %w", cs.table, err)
			}
			if err := cs.insert(ctx, tx, id, in); err != nil {
				return fmt.Errorf("insert %s: %w", cs.table, err)
			}
		}
		return nil
	})
}

// SoftDelete stamps deleted_at on the live film row and then on every live
// row of each child set, in the same transaction. An absent or already
// deleted film yields ErrFilmNotFound and no change.
func (r *FilmRepo) SoftDelete(ctx context.Context, id uint64) error {
	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		now := r.now()
		res, err := tx.ExecContext(ctx,
			`UPDATE films SET deleted_at = ? WHERE film_id = ? AND deleted_at IS NULL`, now, id)
		if err != nil {
			return fmt.Errorf("delete film: %w", err)
		}
		if err := requireRow(res, ErrFilmNotFound); err != nil {
			return err
		}

		for _, cs := range childSets {
			if _, err := tx.ExecContext(ctx,
				"UPDATE "+cs.table+" SET deleted_at = ? WHERE film_id = ? AND deleted_at IS NULL", now, id); err != nil {
				return fmt.Errorf("delete %s: %w", cs.table, err)
			}
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (r *FilmRepo) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// requireRow returns notFound when res affected no rows.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
