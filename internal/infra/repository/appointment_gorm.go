package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
)

// Serializable transactions can abort under contention; retry a few times
// before surfacing the race as a slot conflict.
const maxConflictRetries = 3

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

func (r *AppointmentGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&biz).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Staff / schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) FindStaffCapableOf(
	ctx context.Context,
	businessID uint,
	serviceID uint,
	staffID *uint,
	weekday int,
) ([]models.StaffMember, error) {

	q := r.db.WithContext(ctx).
		Model(&models.StaffMember{}).
		Joins("JOIN staff_services ss ON ss.staff_member_id = staff_members.id").
		Where(
			"staff_members.business_id = ? AND staff_members.active = ? AND ss.service_id = ?",
			businessID, true, serviceID,
		).
		Where(
			"EXISTS (SELECT 1 FROM schedule_entries se WHERE se.staff_id = staff_members.id AND se.weekday = ?)",
			weekday,
		).
		Preload("ScheduleEntries").
		Order("staff_members.id ASC")

	if staffID != nil {
		q = q.Where("staff_members.id = ?", *staffID)
	}

	var staff []models.StaffMember
	if err := q.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *AppointmentGormRepository) GetStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.StaffMember, error) {

	var st models.StaffMember
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("ScheduleEntries").
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *AppointmentGormRepository) ReplaceScheduleEntries(
	ctx context.Context,
	staffID uint,
	entries []models.ScheduleEntry,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("staff_id = ?", staffID).
			Delete(&models.ScheduleEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].StaffID = staffID
		}
		return tx.Create(&entries).Error
	})
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	businessID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointmentForStaff(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND staff_id = ?", appointmentID, staffID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) FindConfirmedInRange(
	ctx context.Context,
	staffID uint,
	window domain.Interval,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"staff_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			staffID, string(domain.StatusConfirmed), window.End, window.Start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) FindOverlapping(
	ctx context.Context,
	staffID uint,
	window domain.Interval,
	excludeID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"staff_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			staffID, string(domain.StatusCancelled), window.End, window.Start,
		).
		Order("start_time ASC")

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	staffID uint,
	window domain.Interval,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"staff_id = ? AND start_time >= ? AND start_time < ?",
			staffID, window.Start, window.End,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

// InTransaction runs fn inside a serializable transaction. Serialization
// aborts are retried; a retry budget exhausted on aborts, or a unique-index
// violation on (staff_id, start_time), surfaces as a slot conflict the
// caller can retry against fresh availability.
func (r *AppointmentGormRepository) InTransaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&AppointmentGormRepository{db: tx})
		}, opts)

		if err == nil || !isSerializationFailure(err) {
			break
		}
	}

	if isSerializationFailure(err) || isUniqueViolation(err) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isSerializationFailure(err error) bool { return pgCode(err) == "40001" }
func isUniqueViolation(err error) bool      { return pgCode(err) == "23505" }

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
