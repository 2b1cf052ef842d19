package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

const postsSchema = `
CREATE TABLE IF NOT EXISTS posts (
    id      CHAR(24) PRIMARY KEY,
    seq     BIGSERIAL,
    title   TEXT NOT NULL,
    content TEXT NOT NULL,
    created TIMESTAMPTZ NOT NULL
)`

const postColumns = `id, title, content, created`

// PostgresStore keeps posts in a relational table with ObjectID-shaped keys.
type PostgresStore struct {
	DB *sqlx.DB
}

func ConnectPostgres(ctx context.Context, opts Options) (*PostgresStore, error) {
	if opts.DatabaseURL == "" {
		return nil, errors.New("db: database url is required for the postgres backend")
	}

	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}
	cfg.ConnectTimeout = 5 * time.Second

	db := sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")

	maxOpen := opts.MaxOpen
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := opts.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 25
	}
	lifetime := opts.MaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the posts table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, postsSchema); err != nil {
		return fmt.Errorf("db: create posts table: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, title string) ([]models.Post, error) {
	var (
		posts []models.Post
		err   error
	)

	if title == "" {
		err = s.DB.SelectContext(ctx, &posts,
			`SELECT `+postColumns+` FROM posts ORDER BY seq`)
	} else {
		err = s.DB.SelectContext(ctx, &posts,
			`SELECT `+postColumns+` FROM posts
			WHERE strpos(lower(title), lower($1)) > 0
			ORDER BY seq`, title)
	}
	if err != nil {
		return nil, fmt.Errorf("db: select posts: %w", err)
	}

	if posts == nil {
		posts = []models.Post{}
	}
	for i := range posts {
		posts[i].Created = posts[i].Created.UTC()
	}
	return posts, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = s.DB.GetContext(ctx, &post,
		`SELECT `+postColumns+` FROM posts WHERE id=$1`, oid.Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db: select post %s: %w", id, err)
	}

	post.Created = post.Created.UTC()
	return &post, nil
}

func (s *PostgresStore) Insert(ctx context.Context, title, content string) (*models.Post, error) {
	post := models.Post{
		ID:      newID(),
		Title:   title,
		Content: content,
		Created: now(),
	}

	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO posts (id, title, content, created)
        VALUES ($1, $2, $3, $4)
    `, post.ID, post.Title, post.Content, post.Created)
	if err != nil {
		return nil, fmt.Errorf("db: insert post: %w", err)
	}

	return &post, nil
}

func (s *PostgresStore) Update(ctx context.Context, id, title, content string) (*models.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = s.DB.QueryRowxContext(ctx, `
        UPDATE posts
        SET title=$1, content=$2
        WHERE id=$3
        RETURNING `+postColumns, title, content, oid.Hex()).StructScan(&post)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db: update post %s: %w", id, err)
	}

	post.Created = post.Created.UTC()
	return &post, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, oid.Hex())
	if err != nil {
		return fmt.Errorf("db: delete post %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db: delete post %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	var tmp int
	return s.DB.QueryRowContext(ctx, "SELECT 1").Scan(&tmp)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.DB.Close()
}
