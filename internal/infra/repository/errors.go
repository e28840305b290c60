package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	repo "kidcare/internal/repository"
)

const (
	pgUniqueViolation = "23505"
	// uuid列に形式外の文字列を渡したとき
	pgInvalidTextRepresentation = "22P02"
)

// gorm/pgのエラーをrepositoryのエラーに寄せる
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repo.ErrDuplicate
		case pgInvalidTextRepresentation:
			return repo.ErrNotFound
		}
	}
	return err
}
