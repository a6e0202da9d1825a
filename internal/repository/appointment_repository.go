package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/salon-crm/internal/domain"
)

// AppointmentFilter captures listing parameters. All provided fields must
// match (conjunctive filter); absent fields impose no constraint.
type AppointmentFilter struct {
	ClientID *int64
	// Day restricts to the UTC calendar day containing the given instant.
	Day *time.Time
	// TimeOfDay restricts to an exact HH:MM time of day in UTC.
	TimeOfDay *string
}

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	Update(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.AppointmentWithClient, error)
	ListWithFilter(ctx context.Context, filter AppointmentFilter) ([]domain.AppointmentWithClient, error)
	CountAtInstant(ctx context.Context, clientID int64, at time.Time, excludeID int64) (int64, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (client_id, date, service, price, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		appointment.ClientID,
		appointment.Date,
		appointment.Service,
		appointment.Price,
		appointment.Status,
		appointment.Notes,
	).Scan(&appointment.ID, &appointment.CreatedAt)
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        UPDATE appointments SET client_id=$1, date=$2, service=$3, price=$4, status=$5, notes=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		appointment.ClientID,
		appointment.Date,
		appointment.Service,
		appointment.Price,
		appointment.Status,
		appointment.Notes,
		appointment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const joinedColumns = `
        a.id, a.client_id, a.date, a.service, a.price, a.status, a.notes, a.created_at,
        c.id, c.name, c.email, c.phone, c.birthday, c.created_at`

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*domain.AppointmentWithClient, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM appointments a
        JOIN clients c ON c.id = a.client_id
        WHERE a.id=$1`, joinedColumns)

	row := r.pool.QueryRow(ctx, query, id)
	appointment, err := scanJoined(row)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (r *appointmentRepository) ListWithFilter(ctx context.Context, filter AppointmentFilter) ([]domain.AppointmentWithClient, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("a.client_id=$%d", len(args)))
	}
	if filter.Day != nil {
		dayStart := filter.Day.UTC().Truncate(24 * time.Hour)
		args = append(args, dayStart)
		clauses = append(clauses, fmt.Sprintf("a.date >= $%d", len(args)))
		args = append(args, dayStart.Add(24*time.Hour))
		clauses = append(clauses, fmt.Sprintf("a.date < $%d", len(args)))
	}
	if filter.TimeOfDay != nil && strings.TrimSpace(*filter.TimeOfDay) != "" {
		args = append(args, strings.TrimSpace(*filter.TimeOfDay))
		clauses = append(clauses, fmt.Sprintf("to_char(a.date AT TIME ZONE 'UTC', 'HH24:MI')=$%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM appointments a
        JOIN clients c ON c.id = a.client_id
        WHERE %s
        ORDER BY a.date ASC`, joinedColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AppointmentWithClient
	for rows.Next() {
		appointment, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *appointment)
	}
	return result, rows.Err()
}

// CountAtInstant reports how many appointments exist for the client at the
// exact instant, excluding the appointment being edited. This backs the
// advisory conflict check; it is not atomic with a subsequent write.
func (r *appointmentRepository) CountAtInstant(ctx context.Context, clientID int64, at time.Time, excludeID int64) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM appointments
        WHERE client_id=$1 AND date=$2 AND id<>$3`

	var count int64
	if err := r.pool.QueryRow(ctx, query, clientID, at, excludeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentRepository) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE client_id=$1`, clientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanJoined(row pgx.Row) (*domain.AppointmentWithClient, error) {
	var appointment domain.AppointmentWithClient
	if err := row.Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.Date,
		&appointment.Service,
		&appointment.Price,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.Client.ID,
		&appointment.Client.Name,
		&appointment.Client.Email,
		&appointment.Client.Phone,
		&appointment.Client.Birthday,
		&appointment.Client.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &appointment, nil
}
