package patients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Store persists patients in SQLite. The schema must be migrated first.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used for created/updated stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the id generator used for new patients.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wraps db.
func NewStore(db *sql.DB, options ...StoreOption) *Store {
	s := &Store{
		db:     db,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

const patientColumns = `id, name, age, department, status, last_visit, phone, condition,
	email, address, emergency_contact, created_at, updated_at`

// Insert stores p, assigning an id when empty, and returns the stored record.
func (s *Store) Insert(ctx context.Context, p Patient) (Patient, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Patient{}, errors.New("patients: name is required")
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	ts := s.now().UTC().Format(timestampLayout)
	p.CreatedAt, p.UpdatedAt = ts, ts

	var age any
	if p.Age != nil {
		age = *p.Age
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (`+patientColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, age, nullable(p.Department), nullable(p.Status), nullable(p.LastVisit),
		nullable(p.Phone), nullable(p.Condition), nullable(p.Email), nullable(p.Address),
		nullable(p.EmergencyContact), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Patient{}, fmt.Errorf("patients: insert %q: %w", p.ID, err)
	}
	s.logger.Debug("patient inserted", zap.String("id", p.ID))
	return p, nil
}

// Get loads a patient by id.
func (s *Store) Get(ctx context.Context, id string) (Patient, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Patient{}, fmt.Errorf("%w: %q", ErrPatientNotFound, id)
	}
	if err != nil {
		return Patient{}, fmt.Errorf("patients: get %q: %w", id, err)
	}
	return p, nil
}

// List returns every patient ordered by name.
func (s *Store) List(ctx context.Context) ([]Patient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("patients: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patients: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: list: %w", err)
	}
	return out, nil
}

// Search lists patients and applies Filter.
func (s *Store) Search(ctx context.Context, q Query) ([]Patient, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, q), nil
}

// Count reports the number of stored patients.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("patients: count: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPatient(row scanner) (Patient, error) {
	var (
		p                                Patient
		age                              sql.NullInt64
		dept, status, visit, phone, cond sql.NullString
		email, address, emergency        sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &age, &dept, &status, &visit, &phone, &cond,
		&email, &address, &emergency, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Patient{}, err
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.Department = dept.String
	p.Status = status.String
	p.LastVisit = visit.String
	p.Phone = phone.String
	p.Condition = cond.String
	p.Email = email.String
	p.Address = address.String
	p.EmergencyContact = emergency.String
	return p, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
