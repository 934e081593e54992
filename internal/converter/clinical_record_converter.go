package converter

import (
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
)

// ClinicalRecordToResponse converts a ClinicalRecord entity to ClinicalRecordResponse DTO
func ClinicalRecordToResponse(record *entity.ClinicalRecord) *dto.ClinicalRecordResponse {
	if record == nil {
		return nil
	}

	response := &dto.ClinicalRecordResponse{
		ID:                   record.ID,
		RecordNumber:         record.RecordNumber,
		ExaminationID:        record.ExaminationID,
		PatientID:            record.PatientID,
		PractitionerID:       record.PractitionerID,
		PrimaryDiagnosis:     record.PrimaryDiagnosis,
		SecondaryDiagnoses:   record.SecondaryDiagnoses,
		TreatmentPlan:        record.TreatmentPlan,
		PrescribedMedication: record.PrescribedMedication,
		ClinicalNotes:        record.ClinicalNotes,
		Recommendations:      record.Recommendations,
		Active:               record.Active,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}

	if record.Patient != nil {
		response.PatientName = record.Patient.FullName()
	}
	if record.Practitioner != nil {
		response.PractitionerName = record.Practitioner.FullName()
	}
	if record.Examination != nil {
		response.ExaminationDate = record.Examination.Date.Format(entity.DateLayout)
	}

	return response
}

// ClinicalRecordsToResponses converts a slice of ClinicalRecord entities to slice of ClinicalRecordResponse DTOs
func ClinicalRecordsToResponses(records []entity.ClinicalRecord) []dto.ClinicalRecordResponse {
	responses := make([]dto.ClinicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *ClinicalRecordToResponse(&records[i])
	}
	return responses
}
