package repository

import (
	"errors"

	"medical-center/internal/domain/entity"
	domainRepo "medical-center/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Practitioner").
		Where("id = ? AND active = ?", id, true).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) IsSlotTaken(db *gorm.DB, practitionerID int64, date, time string, excludeID int64) (bool, error) {
	query := db.Model(&entity.Appointment{}).
		Where("practitioner_id = ? AND appointment_date = ? AND appointment_time = ?", practitionerID, date, time).
		Where("status <> ? AND active = ?", entity.AppointmentStatusCancelled, true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) TransitionStatus(db *gorm.DB, id int64, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND active = ? AND status = ?", id, true, entity.AppointmentStatusScheduled).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) SoftDelete(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// listable restricts to visible appointments whose patient and practitioner
// are both active.
func (r *appointmentRepository) listable(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Appointment{}).
		Joins("JOIN patients ON patients.id = appointments.patient_id AND patients.active = ?", true).
		Joins("JOIN practitioners ON practitioners.id = appointments.practitioner_id AND practitioners.active = ?", true).
		Where("appointments.active = ?", true).
		Preload("Patient").
		Preload("Practitioner")
}

const appointmentNewestFirst = "appointments.appointment_date DESC, appointments.appointment_time DESC, appointments.id DESC"

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.listable(db).Order(appointmentNewestFirst).Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcoming(db *gorm.DB, today string, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.listable(db).
		Where("appointments.status = ? AND appointments.appointment_date >= ?", entity.AppointmentStatusScheduled, today).
		Order("appointments.appointment_date ASC, appointments.appointment_time ASC, appointments.id ASC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.listable(db).
		Where("appointments.patient_id = ?", patientID).
		Order(appointmentNewestFirst).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.listable(db).
		Where("appointments.practitioner_id = ?", practitionerID).
		Order(appointmentNewestFirst).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountScheduledByPatient(db *gorm.DB, patientID int64) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("patient_id = ? AND status = ? AND active = ?", patientID, entity.AppointmentStatusScheduled, true).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountScheduledByPractitioner(db *gorm.DB, practitionerID int64) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("practitioner_id = ? AND status = ? AND active = ?", practitionerID, entity.AppointmentStatusScheduled, true).
		Count(&count).Error
	return count, err
}
