package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"go-feedback-gate/internal/model"
)

const feedbackPageColumns = `id, url_token, title, description, expires_at, user_id, created_at, updated_at`

type FeedbackPageRepository struct {
	db DBTX
}

func NewFeedbackPageRepository(db DBTX) *FeedbackPageRepository {
	return &FeedbackPageRepository{db: db}
}

func scanFeedbackPage(row pgx.Row) (model.FeedbackPage, error) {
	var p model.FeedbackPage
	err := row.Scan(&p.ID, &p.URLToken, &p.Title, &p.Description, &p.ExpiresAt, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *FeedbackPageRepository) Create(ctx context.Context, p model.FeedbackPage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback_pages (id, url_token, title, description, expires_at, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.URLToken, p.Title, p.Description, p.ExpiresAt, p.UserID, p.CreatedAt, p.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return model.ErrURLTokenTaken
	case isForeignKeyViolation(err):
		return model.ErrUserNotFound
	case isInvalidText(err):
		return model.ErrInvalidText
	default:
		return oops.Code("FEEDBACK_PAGE_INSERT_FAILED").With("owner_id", p.UserID).Wrapf(err, "create feedback page")
	}
}

// GetByID only finds pages owned by ownerID.
func (r *FeedbackPageRepository) GetByID(ctx context.Context, id string, ownerID string) (model.FeedbackPage, error) {
	p, err := scanFeedbackPage(r.db.QueryRow(ctx,
		`SELECT `+feedbackPageColumns+` FROM feedback_pages WHERE id = $1 AND user_id = $2`, id, ownerID))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.FeedbackPage{}, model.ErrFeedbackPageNotFound
	}
	if err != nil {
		return model.FeedbackPage{}, oops.Code("FEEDBACK_PAGE_QUERY_FAILED").With("page_id", id).Wrapf(err, "get feedback page")
	}
	return p, nil
}

func (r *FeedbackPageRepository) GetByToken(ctx context.Context, urlToken string) (model.FeedbackPage, error) {
	p, err := scanFeedbackPage(r.db.QueryRow(ctx,
		`SELECT `+feedbackPageColumns+` FROM feedback_pages WHERE url_token = $1`, urlToken))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.FeedbackPage{}, model.ErrFeedbackPageNotFound
	}
	if err != nil {
		return model.FeedbackPage{}, oops.Code("FEEDBACK_PAGE_QUERY_FAILED").With("operation", "get by token").Wrapf(err, "resolve url token")
	}
	return p, nil
}

func (r *FeedbackPageRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.FeedbackPage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+feedbackPageColumns+` FROM feedback_pages
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, oops.Code("FEEDBACK_PAGE_QUERY_FAILED").With("owner_id", ownerID).Wrapf(err, "list feedback pages")
	}
	defer rows.Close()

	pages := make([]model.FeedbackPage, 0)
	for rows.Next() {
		p, err := scanFeedbackPage(rows)
		if err != nil {
			return nil, oops.Code("FEEDBACK_PAGE_SCAN_FAILED").Wrapf(err, "scan feedback page")
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FEEDBACK_PAGE_QUERY_FAILED").With("owner_id", ownerID).Wrapf(err, "iterate feedback pages")
	}
	return pages, nil
}

// Update applies patch in one conditional statement. Nil fields keep the
// stored value; a missing page and a page owned by someone else look the same.
func (r *FeedbackPageRepository) Update(ctx context.Context, id string, ownerID string, patch model.FeedbackPagePatch, now time.Time) (model.FeedbackPage, error) {
	p, err := scanFeedbackPage(r.db.QueryRow(ctx,
		`UPDATE feedback_pages SET
		     title       = COALESCE($3, title),
		     description = COALESCE($4, description),
		     expires_at  = CASE WHEN $6 THEN NULL ELSE COALESCE($5, expires_at) END,
		     updated_at  = $7
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+feedbackPageColumns,
		id, ownerID, patch.Title, patch.Description, patch.ExpiresAt, patch.ClearExpiresAt, now))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.FeedbackPage{}, model.ErrFeedbackPageNotFound
	}
	if isInvalidText(err) {
		return model.FeedbackPage{}, model.ErrInvalidText
	}
	if err != nil {
		return model.FeedbackPage{}, oops.Code("FEEDBACK_PAGE_UPDATE_FAILED").With("page_id", id).Wrapf(err, "update feedback page")
	}
	return p, nil
}

func (r *FeedbackPageRepository) Delete(ctx context.Context, id string, ownerID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM feedback_pages WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return oops.Code("FEEDBACK_PAGE_DELETE_FAILED").With("page_id", id).Wrapf(err, "delete feedback page")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFeedbackPageNotFound
	}
	return nil
}

// IsExpired is false for unknown tokens and pages without an expiry.
func (r *FeedbackPageRepository) IsExpired(ctx context.Context, urlToken string, now time.Time) (bool, error) {
	var expired bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM feedback_pages
		     WHERE url_token = $1 AND expires_at IS NOT NULL AND expires_at < $2
		 )`, urlToken, now).Scan(&expired)
	if err != nil {
		return false, oops.Code("FEEDBACK_PAGE_QUERY_FAILED").With("operation", "is expired").Wrapf(err, "check expiry")
	}
	return expired, nil
}
