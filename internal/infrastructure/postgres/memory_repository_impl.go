package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memoria-app/memoria/internal/domain/entity"
	"github.com/memoria-app/memoria/internal/domain/repository"
)

const memoryColumns = `id, user_id, title, description, cover_image, members, created_at, updated_at`

// keepMembersExcept rebuilds the members array without entries referencing
// the given moment id, preserving the original order.
const keepMembersExcept = `(
	SELECT coalesce(jsonb_agg(t.e ORDER BY t.ord), '[]'::jsonb)
	FROM jsonb_array_elements(members) WITH ORDINALITY AS t(e, ord)
	WHERE t.e->>'moment_id' <> `

type MemoryRepository struct {
	pool *pgxpool.Pool
}

func NewMemoryRepository(pool *pgxpool.Pool) *MemoryRepository {
	return &MemoryRepository{pool: pool}
}

func scanMemory(row pgx.Row) (*entity.Memory, error) {
	m := &entity.Memory{}
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Description, &m.CoverImage,
		&m.Members, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MemoryRepository) Create(ctx context.Context, m *entity.Memory) error {
	if m.Members == nil {
		m.Members = []entity.MemberRef{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO memories (user_id, title, description, cover_image, members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, m.OwnerID, m.Title, m.Description, m.CoverImage, m.Members)
	return row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// CreateWithMembers validates the seed list and inserts the memory inside a
// single transaction: either the memory with its full membership list is
// committed, or nothing is.
func (r *MemoryRepository) CreateWithMembers(ctx context.Context, m *entity.Memory, momentIDs []string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return repository.ErrTxAborted
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if len(momentIDs) > 0 {
		var owned int64
		err = tx.QueryRow(ctx, `
			SELECT count(*) FROM moments
			WHERE user_id = $1 AND id = ANY($2)
		`, m.OwnerID, momentIDs).Scan(&owned)
		if err != nil {
			return err
		}
		if owned != int64(len(momentIDs)) {
			return repository.ErrInvalidReference
		}
	}

	if m.Members == nil {
		m.Members = []entity.MemberRef{}
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO memories (user_id, title, description, members)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, m.OwnerID, m.Title, m.Description, m.Members)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.ErrTxAborted
	}
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.Memory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+memoryColumns+`
		FROM memories
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	return scanMemory(row)
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string, sort repository.MemorySort) ([]*entity.Memory, error) {
	order := "created_at"
	switch sort.By {
	case "title":
		order = "title"
	case "updated_at":
		order = "updated_at"
	}
	dir := "DESC"
	if sort.Asc {
		dir = "ASC"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+memoryColumns+`
		FROM memories
		WHERE user_id = $1
		ORDER BY `+order+` `+dir, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*entity.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *MemoryRepository) Patch(ctx context.Context, ownerID, id string, p repository.MemoryPatch) (*entity.Memory, error) {
	set := `updated_at = now()`
	args := []any{id, ownerID}
	if p.Title != nil {
		args = append(args, *p.Title)
		set += `, title = $3`
	}
	if p.Description != nil {
		args = append(args, *p.Description)
		if len(args) == 3 {
			set += `, description = $3`
		} else {
			set += `, description = $4`
		}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE memories SET `+set+`
		WHERE id = $1 AND user_id = $2
		RETURNING `+memoryColumns, args...)
	return scanMemory(row)
}

// AppendMember appends unconditionally: no duplicate check and no
// re-validation of the referenced moment. Matches the add-moment contract.
func (r *MemoryRepository) AppendMember(ctx context.Context, ownerID, memoryID, momentID string, addedAt time.Time) (*entity.Memory, error) {
	entry, err := json.Marshal(entity.MemberRef{MomentID: momentID, AddedAt: addedAt.UTC()})
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE memories
		SET members = members || $3::jsonb, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+memoryColumns, memoryID, ownerID, entry)
	return scanMemory(row)
}

func (r *MemoryRepository) PullMember(ctx context.Context, ownerID, memoryID, momentID string) (*entity.Memory, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE memories
		SET members = `+keepMembersExcept+`$3), updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+memoryColumns, memoryID, ownerID, momentID)
	return scanMemory(row)
}

// PullMemberAll is the moment-deletion fan-out: one owner-scoped statement
// touching every memory that still references the moment.
func (r *MemoryRepository) PullMemberAll(ctx context.Context, ownerID, momentID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE memories
		SET members = `+keepMembersExcept+`$2), updated_at = now()
		WHERE user_id = $1
		  AND members @> jsonb_build_array(jsonb_build_object('moment_id', $2::text))
	`, ownerID, momentID)
	return err
}

// SweepOrphans prunes members entries whose moment row no longer exists.
// Corrective pass for the non-transactional deletion fan-out.
func (r *MemoryRepository) SweepOrphans(ctx context.Context, ownerID string) (int64, error) {
	rows, err := r.pool.Query(ctx, `
		WITH pruned AS (
			SELECT m.id,
			       coalesce(jsonb_agg(t.e ORDER BY t.ord) FILTER (WHERE EXISTS (
			           SELECT 1 FROM moments mm
			           WHERE mm.id = (t.e->>'moment_id')::uuid AND mm.user_id = m.user_id
			       )), '[]'::jsonb) AS kept,
			       count(*) FILTER (WHERE NOT EXISTS (
			           SELECT 1 FROM moments mm
			           WHERE mm.id = (t.e->>'moment_id')::uuid AND mm.user_id = m.user_id
			       )) AS removed
			FROM memories m, jsonb_array_elements(m.members) WITH ORDINALITY AS t(e, ord)
			WHERE m.user_id = $1
			GROUP BY m.id
		)
		UPDATE memories m
		SET members = pruned.kept, updated_at = now()
		FROM pruned
		WHERE m.id = pruned.id AND pruned.removed > 0
		RETURNING pruned.removed
	`, ownerID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var removed int64
		if err := rows.Scan(&removed); err != nil {
			return total, err
		}
		total += removed
	}
	return total, rows.Err()
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM memories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.MemoryRepository = (*MemoryRepository)(nil)
