package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memoria-app/memoria/internal/domain/entity"
	"github.com/memoria-app/memoria/internal/domain/repository"
)

const momentColumns = `id, user_id, text, mood, tags, views, media, created_at, updated_at`

type MomentRepository struct {
	pool *pgxpool.Pool
}

func NewMomentRepository(pool *pgxpool.Pool) *MomentRepository {
	return &MomentRepository{pool: pool}
}

func scanMoment(row pgx.Row) (*entity.Moment, error) {
	m := &entity.Moment{}
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Text, &m.Mood, &m.Tags, &m.Views,
		&m.Media, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MomentRepository) Create(ctx context.Context, m *entity.Moment) error {
	if m.Media == nil {
		m.Media = []entity.MediaItem{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO moments (user_id, text, mood, tags, media)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, views, created_at, updated_at
	`, m.OwnerID, m.Text, m.Mood, m.Tags, m.Media)
	return row.Scan(&m.ID, &m.Views, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MomentRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.Moment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+momentColumns+`
		FROM moments
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	return scanMoment(row)
}

func (r *MomentRepository) ListByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.Moment, error) {
	if len(ids) == 0 {
		return []*entity.Moment{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+momentColumns+`
		FROM moments
		WHERE user_id = $1 AND id = ANY($2)
	`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMoments(rows)
}

func (r *MomentRepository) List(ctx context.Context, ownerID string, f repository.MomentFilter) ([]*entity.Moment, int64, error) {
	where := `WHERE user_id = $1`
	args := []any{ownerID}
	if f.Mood != "" {
		args = append(args, f.Mood)
		where += fmt.Sprintf(` AND mood = $%d`, len(args))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where += fmt.Sprintf(` AND $%d = ANY(tags)`, len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		where += fmt.Sprintf(` AND text ILIKE $%d`, len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM moments `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	args = append(args, limit, (page-1)*limit)
	q := fmt.Sprintf(`
		SELECT `+momentColumns+`
		FROM moments %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectMoments(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MomentRepository) Patch(ctx context.Context, ownerID, id string, p repository.MomentPatch) (*entity.Moment, error) {
	set := `updated_at = now()`
	args := []any{id, ownerID}
	if p.Text != nil {
		args = append(args, *p.Text)
		set += fmt.Sprintf(`, text = $%d`, len(args))
	}
	if p.Mood != nil {
		args = append(args, *p.Mood)
		set += fmt.Sprintf(`, mood = $%d`, len(args))
	}
	if p.Tags != nil {
		args = append(args, *p.Tags)
		set += fmt.Sprintf(`, tags = $%d`, len(args))
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE moments SET `+set+`
		WHERE id = $1 AND user_id = $2
		RETURNING `+momentColumns, args...)
	return scanMoment(row)
}

func (r *MomentRepository) IncrementViews(ctx context.Context, ownerID, id string) (*entity.Moment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE moments SET views = views + 1, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+momentColumns, id, ownerID)
	return scanMoment(row)
}

func (r *MomentRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM moments WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectMoments(rows pgx.Rows) ([]*entity.Moment, error) {
	items := []*entity.Moment{}
	for rows.Next() {
		m, err := scanMoment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

var _ repository.MomentRepository = (*MomentRepository)(nil)
