package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// Sentinels for unique-constraint rejections. The services pre-check for
// duplicates but can lose the race against a concurrent insert; the
// constraint is the real gate and these keep the loss a 400, not a 500.
var (
	ErrDuplicateReview = errors.New("review already exists for this title and author")
	ErrDuplicateUser   = errors.New("username or email already exists")
	ErrDuplicateSlug   = errors.New("slug already exists")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
