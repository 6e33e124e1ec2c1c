package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskhive/deskhive/internal/application/listing"
	"github.com/deskhive/deskhive/internal/domain"
)

type WorkspaceRepo struct {
	db *sql.DB
}

func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// ---------- row mapping ----------

type workspaceRow struct {
	ID          string
	Name        string
	Location    string
	Capacity    string
	Amenities   []byte
	Price       float64
	Description sql.NullString
	CreatedBy   string
	Image       sql.NullString
	Status      string
	Bookings    []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const workspaceColumns = `id, name, location, capacity, amenities, price, description, created_by, image, status, bookings, created_at, updated_at`

func scanWorkspaceRow(row rowScanner) (workspaceRow, error) {
	var wr workspaceRow
	err := row.Scan(
		&wr.ID,
		&wr.Name,
		&wr.Location,
		&wr.Capacity,
		&wr.Amenities,
		&wr.Price,
		&wr.Description,
		&wr.CreatedBy,
		&wr.Image,
		&wr.Status,
		&wr.Bookings,
		&wr.CreatedAt,
		&wr.UpdatedAt,
	)
	return wr, err
}

func toDomainWorkspace(wr workspaceRow) domain.Workspace {
	var amenities []string
	if len(wr.Amenities) > 0 {
		_ = json.Unmarshal(wr.Amenities, &amenities)
	}
	var bookings []domain.Booking
	if len(wr.Bookings) > 0 {
		_ = json.Unmarshal(wr.Bookings, &bookings)
	}
	return domain.Workspace{
		ID:          wr.ID,
		Name:        wr.Name,
		Location:    wr.Location,
		Capacity:    wr.Capacity,
		Amenities:   amenities,
		Price:       wr.Price,
		Description: wr.Description.String,
		CreatedBy:   wr.CreatedBy,
		Image:       wr.Image.String,
		Status:      wr.Status,
		Bookings:    bookings,
		CreatedAt:   wr.CreatedAt,
		UpdatedAt:   wr.UpdatedAt,
	}
}

// ---------- listing.WorkspaceStore ----------

func (r *WorkspaceRepo) Create(ctx context.Context, w domain.Workspace) (domain.Workspace, error) {
	if w.ID == "" {
		return domain.Workspace{}, domain.ErrMissingField("id")
	}
	if w.CreatedBy == "" {
		return domain.Workspace{}, domain.ErrMissingField("created_by")
	}
	if w.Status == "" {
		w.Status = domain.WorkspaceActive
	}

	amenities, err := json.Marshal(w.Amenities)
	if err != nil {
		return domain.Workspace{}, domain.ErrInternal(err)
	}
	bookings, err := json.Marshal(w.Bookings)
	if err != nil {
		return domain.Workspace{}, domain.ErrInternal(err)
	}

	q := `
INSERT INTO workspaces (id, name, location, capacity, amenities, price, description, created_by, image, status, bookings)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING ` + workspaceColumns + `;
`
	wr, err := scanWorkspaceRow(r.db.QueryRowContext(ctx, q,
		w.ID, w.Name, w.Location, w.Capacity, amenities, w.Price,
		w.Description, w.CreatedBy, w.Image, w.Status, bookings,
	))
	if err != nil {
		return domain.Workspace{}, domain.ErrDBUnavailable(err)
	}
	return toDomainWorkspace(wr), nil
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (domain.Workspace, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Workspace{}, domain.ErrMissingField("id")
	}

	q := `
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE id = $1
LIMIT 1;
`
	wr, err := scanWorkspaceRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Workspace{}, domain.ErrWorkspaceNotFound()
		}
		return domain.Workspace{}, domain.ErrDBUnavailable(err)
	}
	return toDomainWorkspace(wr), nil
}

func (r *WorkspaceRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Workspace, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingField("user_id")
	}

	q := `
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE created_by = $1
ORDER BY created_at;
`
	return r.queryWorkspaces(ctx, q, userID)
}

func (r *WorkspaceRepo) ListActive(ctx context.Context) ([]domain.Workspace, error) {
	q := `
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE status = $1
ORDER BY created_at;
`
	return r.queryWorkspaces(ctx, q, domain.WorkspaceActive)
}

func (r *WorkspaceRepo) queryWorkspaces(ctx context.Context, q string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.Workspace
	for rows.Next() {
		wr, err := scanWorkspaceRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainWorkspace(wr))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, id string, upd listing.WorkspaceUpdate) (domain.Workspace, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Workspace{}, domain.ErrMissingField("id")
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Capacity != nil {
		add("capacity", *upd.Capacity)
	}
	if upd.Amenities != nil {
		b, err := json.Marshal(*upd.Amenities)
		if err != nil {
			return domain.Workspace{}, domain.ErrInternal(err)
		}
		add("amenities", b)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Image != nil {
		add("image", *upd.Image)
	}

	q := `
UPDATE workspaces
SET ` + strings.Join(sets, ", ") + `
WHERE id = $1
RETURNING ` + workspaceColumns + `;
`
	wr, err := scanWorkspaceRow(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Workspace{}, domain.ErrWorkspaceNotFound()
		}
		return domain.Workspace{}, domain.ErrDBUnavailable(err)
	}
	return toDomainWorkspace(wr), nil
}

func (r *WorkspaceRepo) SetStatus(ctx context.Context, id, status string) (domain.Workspace, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Workspace{}, domain.ErrMissingField("id")
	}
	if status != domain.WorkspaceActive && status != domain.WorkspaceInactive {
		return domain.Workspace{}, domain.ErrInvalidField("status", "must be active or inactive")
	}

	q := `
UPDATE workspaces
SET status = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + workspaceColumns + `;
`
	wr, err := scanWorkspaceRow(r.db.QueryRowContext(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Workspace{}, domain.ErrWorkspaceNotFound()
		}
		return domain.Workspace{}, domain.ErrDBUnavailable(err)
	}
	return toDomainWorkspace(wr), nil
}
