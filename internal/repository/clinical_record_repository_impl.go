package repository

import (
	"errors"

	"medical-center/internal/domain/entity"
	domainRepo "medical-center/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clinicalRecordRepository struct{}

func NewClinicalRecordRepository() domainRepo.ClinicalRecordRepository {
	return &clinicalRecordRepository{}
}

func (r *clinicalRecordRepository) Create(db *gorm.DB, record *entity.ClinicalRecord) error {
	return db.Omit(clause.Associations).Create(record).Error
}

func (r *clinicalRecordRepository) Update(db *gorm.DB, record *entity.ClinicalRecord) error {
	return db.Omit(clause.Associations).Save(record).Error
}

func (r *clinicalRecordRepository) FindByID(db *gorm.DB, id int64) (*entity.ClinicalRecord, error) {
	var record entity.ClinicalRecord
	err := db.Preload("Patient").Preload("Practitioner").Preload("Examination").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *clinicalRecordRepository) ExistsForExamination(db *gorm.DB, examinationID int64) (bool, error) {
	var count int64
	err := db.Model(&entity.ClinicalRecord{}).Where("examination_id = ?", examinationID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clinicalRecordRepository) LastNumberForYear(db *gorm.DB, year int) (string, error) {
	var record entity.ClinicalRecord
	// Length first: "2026-10000" sorts below "2026-9999" as plain text.
	err := db.Select("record_number").
		Where("record_number LIKE ?", entity.RecordNumberPrefix(year)+"%").
		Order("LENGTH(record_number) DESC, record_number DESC").
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return record.RecordNumber, nil
}

func (r *clinicalRecordRepository) listable(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.ClinicalRecord{}).
		Joins("JOIN patients ON patients.id = clinical_records.patient_id AND patients.active = ?", true).
		Joins("JOIN practitioners ON practitioners.id = clinical_records.practitioner_id AND practitioners.active = ?", true).
		Where("clinical_records.active = ?", true).
		Preload("Patient").
		Preload("Practitioner").
		Order("clinical_records.created_at DESC, clinical_records.id DESC")
}

func (r *clinicalRecordRepository) FindAll(db *gorm.DB) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	if err := r.listable(db).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	if err := r.listable(db).Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	err := r.listable(db).Where("clinical_records.patient_id = ?", patientID).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	err := r.listable(db).Where("clinical_records.practitioner_id = ?", practitionerID).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) Search(db *gorm.DB, term string) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	err := matchAny(r.listable(db), term,
		"clinical_records.record_number",
		"patients.first_name || ' ' || patients.last_name",
		"clinical_records.primary_diagnosis",
	).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) SoftDelete(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.ClinicalRecord{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}
