package repository

import (
	"context"
	"errors"
	"fmt"

	"appraisal_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	discountNotFoundMessage = "discount code not found"
	uniqueViolation         = "23505"

	discountColumns = `id, code, discount_type, discount_value::float8 AS discount_value, description, active, created_at, updated_at`
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// FindActiveByCode looks up an active code. code must already be normalised.
func (r *Repo) FindActiveByCode(ctx context.Context, code string) (DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE upper(code) = $1 AND active = true`
	return r.one(ctx, "find discount by code", query, code)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE id = $1`
	return r.one(ctx, "get discount by id", query, id)
}

// List returns every code, newest first.
func (r *Repo) List(ctx context.Context) ([]DiscountCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+discountColumns+` FROM discount_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowToStructByName[DiscountCode])
	if err != nil {
		return nil, fmt.Errorf("scan discounts: %w", err)
	}
	return codes, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (DiscountCode, error) {
	query := `
		INSERT INTO discount_codes (id, code, discount_type, discount_value, description, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + discountColumns

	return r.one(ctx, "create discount", query,
		uuid.New(), params.Code, string(params.Type), params.Value, params.Description, params.Active)
}

func (r *Repo) Update(ctx context.Context, params UpdateParams) (DiscountCode, error) {
	var discountType *string
	if params.Type != nil {
		t := string(*params.Type)
		discountType = &t
	}

	query := `
		UPDATE discount_codes SET
			code = COALESCE($2, code),
			discount_type = COALESCE($3, discount_type),
			discount_value = COALESCE($4, discount_value),
			description = COALESCE($5, description),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + discountColumns

	return r.one(ctx, "update discount", query,
		params.ID, params.Code, discountType, params.Value, params.Description)
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(discountNotFoundMessage)
	}
	return nil
}

func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (DiscountCode, error) {
	query := `UPDATE discount_codes SET active = $2, updated_at = now() WHERE id = $1 RETURNING ` + discountColumns
	return r.one(ctx, "set discount active", query, id, active)
}

func (r *Repo) one(ctx context.Context, op, query string, args ...any) (DiscountCode, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	code, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[DiscountCode])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DiscountCode{}, apperr.NotFound(discountNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return DiscountCode{}, apperr.Conflict("discount code already exists")
		}
		return DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	return code, nil
}
