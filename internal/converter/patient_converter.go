package converter

import (
	"time"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO. Age is
// computed as of today.
func PatientToResponse(patient *entity.Patient, today time.Time) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		FullName:  patient.FullName(),
		BirthDate: patient.BirthDate.Format(entity.DateLayout),
		Age:       patient.AgeAt(today),
		Gender:    patient.Gender,
		BloodType: patient.BloodType,
		Allergies: patient.Allergies,
		Active:    patient.Active,
		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient, today time.Time) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i], today)
	}
	return responses
}
