package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tailorshop/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	// DeleteWithNotifications removes the appointment's notifications and the
	// appointment row in one transaction, notifications first to satisfy the
	// foreign key.
	DeleteWithNotifications(ctx context.Context, id int64) error
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (customer_id, customer_name, age, phone_number, deadline,
			image_file_names, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		appt.CustomerID, appt.CustomerName, appt.Age, appt.PhoneNumber,
		appt.Deadline, appt.ImageFileNames, appt.Status, appt.Notes,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var appt domain.Appointment
	query := `SELECT * FROM appointments WHERE id = $1`

	err := r.db.GetContext(ctx, &appt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error) {
	var appt domain.Appointment
	query := `SELECT * FROM appointments WHERE id = $1 AND customer_id = $2`

	err := r.db.GetContext(ctx, &appt, query, id, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	query := `SELECT * FROM appointments WHERE customer_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &appts, query, customerID)
	return appts, err
}

func (r *appointmentRepository) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	query := `SELECT * FROM appointments ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &appts, query)
	return appts, err
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET customer_name = :customer_name, age = :age, phone_number = :phone_number,
			deadline = :deadline, image_file_names = :image_file_names,
			bill_file_name = :bill_file_name, measurements_file_name = :measurements_file_name,
			status = :status, notes = :notes, updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, appt)
	return err
}

func (r *appointmentRepository) DeleteWithNotifications(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE appointment_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
