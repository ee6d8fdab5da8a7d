package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, owner_id, name, email, phone, channel, status, message_count, follow_up_at, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, owner_id, name, email, phone, channel, status, message_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		lead.Channel,
		lead.Status,
		lead.MessageCount,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateLead
		}
		log.Printf("[db] lead insert failed: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeads(rows)
}

// UpdateStatus is the compare-and-swap the whole pipeline core leans on:
// the write only lands if the stored status still matches what the
// caller observed. Nothing else on the row changes except updated_at.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, expected, next entity.Status) error {
	query := `
		UPDATE leads
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	res, err := r.DB.ExecContext(ctx, query, id, expected, next)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the lead is gone or the status moved under us.
	var current entity.Status
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM leads WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrLeadNotFound
	}
	if err != nil {
		return err
	}
	return entity.ErrStatusConflict
}

func (r *LeadRepository) ScheduleFollowUp(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE leads SET follow_up_at = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) IncrementMessageCount(ctx context.Context, id string) error {
	query := `UPDATE leads SET message_count = message_count + 1, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByStatus with ownerID "" counts the whole workspace.
func (r *LeadRepository) CountByStatus(ctx context.Context, ownerID string) (map[entity.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM leads
		WHERE ($1 = '' OR owner_id = $1)
		GROUP BY status
	`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[entity.Status]int)
	for rows.Next() {
		var status entity.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListInactiveSince finds leads untouched since cutoff that the
// inactivity trigger could still move: not closed, not already parked.
func (r *LeadRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE updated_at < $1
		  AND status NOT IN ($2, $3, $4)
		ORDER BY updated_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, cutoff,
		entity.StatusClosedWon, entity.StatusClosedLost, entity.StatusFollowUp)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeads(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var phone sql.NullString
	var followUp sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.OwnerID,
		&lead.Name,
		&lead.Email,
		&phone,
		&lead.Channel,
		&lead.Status,
		&lead.MessageCount,
		&followUp,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	if followUp.Valid {
		t := followUp.Time
		lead.FollowUpAt = &t
	}
	return &lead, nil
}

func collectLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
