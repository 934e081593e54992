package repository

import (
	"errors"

	"medical-center/internal/domain/entity"
	domainRepo "medical-center/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type examinationRepository struct{}

func NewExaminationRepository() domainRepo.ExaminationRepository {
	return &examinationRepository{}
}

func (r *examinationRepository) Create(db *gorm.DB, examination *entity.Examination) error {
	return db.Omit(clause.Associations).Create(examination).Error
}

func (r *examinationRepository) Update(db *gorm.DB, examination *entity.Examination) error {
	return db.Omit(clause.Associations).Save(examination).Error
}

func (r *examinationRepository) FindByID(db *gorm.DB, id int64) (*entity.Examination, error) {
	var examination entity.Examination
	err := db.Preload("Patient").Preload("Practitioner").
		Where("id = ?", id).
		First(&examination).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &examination, nil
}

func (r *examinationRepository) FindActiveByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Examination, error) {
	var examination entity.Examination
	err := db.Where("appointment_id = ? AND active = ?", appointmentID, true).First(&examination).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &examination, nil
}

func (r *examinationRepository) listable(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Examination{}).
		Joins("JOIN patients ON patients.id = examinations.patient_id AND patients.active = ?", true).
		Joins("JOIN practitioners ON practitioners.id = examinations.practitioner_id AND practitioners.active = ?", true).
		Where("examinations.active = ?", true).
		Preload("Patient").
		Preload("Practitioner").
		Order("examinations.exam_date DESC, examinations.id DESC")
}

func (r *examinationRepository) FindAll(db *gorm.DB) ([]entity.Examination, error) {
	var examinations []entity.Examination
	if err := r.listable(db).Find(&examinations).Error; err != nil {
		return nil, err
	}
	return examinations, nil
}

func (r *examinationRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Examination, error) {
	var examinations []entity.Examination
	err := r.listable(db).Where("examinations.patient_id = ?", patientID).Find(&examinations).Error
	if err != nil {
		return nil, err
	}
	return examinations, nil
}

func (r *examinationRepository) FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.Examination, error) {
	var examinations []entity.Examination
	err := r.listable(db).Where("examinations.practitioner_id = ?", practitionerID).Find(&examinations).Error
	if err != nil {
		return nil, err
	}
	return examinations, nil
}

func (r *examinationRepository) SoftDelete(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Examination{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}
