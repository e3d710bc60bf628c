package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/crm-leads/internal/dto"
	"github.com/octobees/crm-leads/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the given id.
var ErrLeadNotFound = errors.New("lead not found")

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	BulkInsert(ctx context.Context, leads []entity.Lead) (int, error)
	GetByID(ctx context.Context, id int64) (*entity.Lead, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	UpdateScore(ctx context.Context, id int64, score int, justification, nextAction string) error
	FilterOptions(ctx context.Context) (dto.FilterOptions, error)
}

// pgxPool is the subset of pgxpool.Pool the repository depends on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `
            id,
            company_name,
            industry,
            location,
            contact_name,
            contact_email,
            contact_phone,
            revenue,
            employees,
            website,
            notes,
            ai_score,
            ai_justification,
            ai_next_action`

const bulkInsertLeadSQL = `
        INSERT INTO leads (
            company_name, industry, location, contact_name, contact_email,
            contact_phone, revenue, employees, website, notes
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

const insertLeadSQL = bulkInsertLeadSQL + `
        RETURNING id`

// Create inserts a single lead and assigns its generated id.
func (r *PGXLeadsRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}

	err := r.pool.QueryRow(ctx, insertLeadSQL,
		lead.CompanyName,
		lead.Industry,
		lead.Location,
		lead.ContactName,
		lead.ContactEmail,
		lead.ContactPhone,
		lead.Revenue,
		lead.Employees,
		lead.Website,
		lead.Notes,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// BulkInsert persists a batch of leads inside a single transaction and
// returns the number of rows inserted.
func (r *PGXLeadsRepository) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("start bulk insert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, lead := range leads {
		if _, err := tx.Exec(ctx, bulkInsertLeadSQL,
			lead.CompanyName,
			lead.Industry,
			lead.Location,
			lead.ContactName,
			lead.ContactEmail,
			lead.ContactPhone,
			lead.Revenue,
			lead.Employees,
			lead.Website,
			lead.Notes,
		); err != nil {
			return 0, fmt.Errorf("bulk insert lead %q: %w", lead.CompanyName, err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit bulk insert tx: %w", err)
	}

	return inserted, nil
}

// GetByID fetches a single lead.
func (r *PGXLeadsRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}

	return lead, nil
}

// List retrieves leads matching the provided filter, ordered by id.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT` + leadColumns + ` FROM leads`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Industry != "" {
		clauses = append(clauses, fmt.Sprintf("industry = $%d", idx))
		args = append(args, filter.Industry)
		idx++
	}
	if filter.Location != "" {
		clauses = append(clauses, fmt.Sprintf("location ILIKE $%d", idx))
		args = append(args, "%"+filter.Location+"%")
		idx++
	}
	if filter.MinScore != nil {
		clauses = append(clauses, fmt.Sprintf("ai_score >= $%d", idx))
		args = append(args, *filter.MinScore)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}
	baseQuery.WriteString(" ORDER BY id")

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Delete removes a lead by id.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// DeleteAll removes every lead and reports how many rows were deleted.
func (r *PGXLeadsRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, fmt.Errorf("delete all leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateScore writes all three AI fields in a single statement.
func (r *PGXLeadsRepository) UpdateScore(ctx context.Context, id int64, score int, justification, nextAction string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET ai_score = $1, ai_justification = $2, ai_next_action = $3 WHERE id = $4`,
		score, justification, nextAction, id,
	)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// FilterOptions returns the distinct non-empty industries and locations.
func (r *PGXLeadsRepository) FilterOptions(ctx context.Context) (dto.FilterOptions, error) {
	options := dto.FilterOptions{
		Industries: []string{},
		Locations:  []string{},
	}

	industries, err := r.distinctValues(ctx, "industry")
	if err != nil {
		return options, fmt.Errorf("list industries: %w", err)
	}
	locations, err := r.distinctValues(ctx, "location")
	if err != nil {
		return options, fmt.Errorf("list locations: %w", err)
	}

	options.Industries = industries
	options.Locations = locations
	return options, nil
}

func (r *PGXLeadsRepository) distinctValues(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM leads WHERE %s <> '' ORDER BY %s`, column, column, column)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var (
		lead          entity.Lead
		score         sql.NullInt64
		justification sql.NullString
		nextAction    sql.NullString
	)

	err := row.Scan(
		&lead.ID,
		&lead.CompanyName,
		&lead.Industry,
		&lead.Location,
		&lead.ContactName,
		&lead.ContactEmail,
		&lead.ContactPhone,
		&lead.Revenue,
		&lead.Employees,
		&lead.Website,
		&lead.Notes,
		&score,
		&justification,
		&nextAction,
	)
	if err != nil {
		return nil, err
	}

	if score.Valid {
		val := int(score.Int64)
		lead.AIScore = &val
	}
	if justification.Valid {
		val := justification.String
		lead.AIJustification = &val
	}
	if nextAction.Valid {
		val := nextAction.String
		lead.AINextAction = &val
	}

	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
