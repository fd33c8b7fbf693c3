package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Movie is a catalog entry. CreatedBy is the owning user's ID, or "" for
// movies nobody owns (e.g. seeded ones).
type Movie struct {
	ID          string
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      float64
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovieInput carries the user-editable movie fields.
type MovieInput struct {
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      float64
}

// movieRow is the movies table layout. Genres are stored comma-joined.
type movieRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Year        int            `db:"year"`
	Genres      string         `db:"genres"`
	Rating      float64        `db:"rating"`
	CreatedBy   sql.NullString `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *movieRow) movie() *Movie {
	return &Movie{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Year:        r.Year,
		Genres:      SplitGenres(r.Genres),
		Rating:      r.Rating,
		CreatedBy:   r.CreatedBy.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// SplitGenres splits a comma-separated genre list, trimming entries and
// dropping empty ones.
func SplitGenres(s string) []string {
	var genres []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

// MovieStore is the sqlx-backed implementation of MovieStoreIface.
type MovieStore struct {
	db *sqlx.DB
}

func NewMovieStore(db *sqlx.DB) *MovieStore {
	return &MovieStore{db: db}
}

// Create inserts a movie owned by createdBy ("" for no owner).
func (s *MovieStore) Create(ctx context.Context, in MovieInput, createdBy string) (*Movie, error) {
	id, err := insertMovie(ctx, s.db, in, createdBy)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func insertMovie(ctx context.Context, ext sqlx.ExtContext, in MovieInput, createdBy string) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO movies (id, name, description, year, genres, rating, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, in.Name, in.Description, in.Year, strings.Join(in.Genres, ","), in.Rating, nullableID(createdBy), now, now)
	return id, err
}

// GetByID returns the movie matching id, or ErrNotFound.
func (s *MovieStore) GetByID(ctx context.Context, id string) (*Movie, error) {
	var r movieRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT * FROM movies WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.movie(), nil
}

// List returns all movies, newest first.
func (s *MovieStore) List(ctx context.Context) ([]*Movie, error) {
	var rows []movieRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM movies ORDER BY created_at DESC, name ASC`); err != nil {
		return nil, err
	}
	movies := make([]*Movie, 0, len(rows))
	for i := range rows {
		movies = append(movies, rows[i].movie())
	}
	return movies, nil
}

// Update replaces the editable fields of movie id. Ownership is not changed.
func (s *MovieStore) Update(ctx context.Context, id string, in MovieInput) (*Movie, error) {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE movies SET name = ?, description = ?, year = ?, genres = ?, rating = ?, updated_at = ?
		WHERE id = ?
	`), in.Name, in.Description, in.Year, strings.Join(in.Genres, ","), in.Rating, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	// MySQL reports zero affected rows for no-op updates, so existence is
	// checked with a read instead of RowsAffected.
	return s.GetByID(ctx, id)
}

// Delete removes movie id, or returns ErrNotFound.
func (s *MovieStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM movies WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll clears the movies table and inserts movies in a single transaction.
func (s *MovieStore) ReplaceAll(ctx context.Context, movies []MovieInput, createdBy string) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return 0, err
	}
	for _, in := range movies {
		if _, err := insertMovie(ctx, tx, in, createdBy); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(movies), nil
}
