package postgres

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	maxOpenConns = 20
	maxIdleConns = 5
	connMaxLife  = 15 * time.Minute
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens a pooled connection and checks that it answers.
func Connect(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.WithMessage(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WithMessage(err, "ping database")
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)
	return db, nil
}

// Migrate applies the embedded migrations. An up to date schema is not an
// error.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.WithMessage(err, "open migrations")
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return errors.WithMessage(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return errors.WithMessage(err, "new migrate")
	}
	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.WithMessage(err, "migration version")
	}
	if dirty {
		return errors.New("database is dirty")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.WithMessage(err, "migrate up")
	}
	return nil
}
