// Package repository implements the relational store: users, posts, tags and
// the posts_tags association, each mutation in a single transaction.
package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"blogly/internal/models"
	"blogly/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// observe runs fn inside a store span, records the operation metrics and
// translates the returned error into the AppError taxonomy.
func observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := observability.StartStoreSpan(ctx, op)

	err := translateError(fn(ctx))

	observability.EndSpan(span, err)
	observability.ObserveStoreOperation(op, resultLabel(err), start)
	return err
}

// withTx runs fn in one database transaction. Any error rolls the whole
// operation back.
func withTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	return observe(ctx, op, func(ctx context.Context) error {
		return db.WithContext(ctx).Transaction(fn)
	})
}

// PostgreSQL SQLSTATE codes treated as constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.AppError{Code: models.CodeNotFound, Message: "Record not found", Err: err}
	}
	if msg, ok := constraintMessage(err); ok {
		return models.NewConstraintError(msg, err)
	}
	return models.NewStoreError(err)
}

// constraintMessage reports whether err is a constraint violation raised by
// postgres, sqlite or gorm's error translation, with a user-facing message.
func constraintMessage(err error) (string, bool) {
	switch {
	case isDuplicateKey(err):
		return "A record with that value already exists", true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return "Referenced record does not exist", true
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return "Value violates a check constraint", true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return "Referenced record does not exist", true
		case pgNotNullViolation:
			return "A required field is missing", true
		case pgCheckViolation:
			return "Value violates a check constraint", true
		case pgStringTooLong:
			return "Value is too long", true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key constraint failed"):
		return "Referenced record does not exist", true
	case strings.Contains(msg, "not null constraint failed"):
		return "A required field is missing", true
	case strings.Contains(msg, "check constraint failed"):
		return "Value violates a check constraint", true
	}
	return "", false
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return observability.ResultOK
	case models.IsNotFound(err):
		return observability.ResultNotFound
	case models.IsConstraintViolation(err):
		return observability.ResultConstraint
	default:
		return observability.ResultError
	}
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func sortTags(tags []models.Tag) {
	slices.SortFunc(tags, func(a, b models.Tag) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
}
