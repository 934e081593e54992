package converter

import (
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
)

// PractitionerToResponse converts a Practitioner entity to PractitionerResponse DTO
func PractitionerToResponse(practitioner *entity.Practitioner) *dto.PractitionerResponse {
	if practitioner == nil {
		return nil
	}

	return &dto.PractitionerResponse{
		ID:            practitioner.ID,
		CredentialID:  practitioner.CredentialID,
		FirstName:     practitioner.FirstName,
		MiddleName:    practitioner.MiddleName,
		PaternalName:  practitioner.PaternalName,
		MaternalName:  practitioner.MaternalName,
		FullName:      practitioner.FullName(),
		Specialty:     practitioner.Specialty,
		LicenseNumber: practitioner.LicenseNumber,
		Email:         practitioner.Email,
		RFC:           practitioner.RFC,
		Phone:         practitioner.Phone,
		Site:          practitioner.Site,
		Active:        practitioner.Active,
		CreatedAt:     practitioner.CreatedAt,
		UpdatedAt:     practitioner.UpdatedAt,
	}
}

// PractitionersToResponses converts a slice of Practitioner entities to slice of PractitionerResponse DTOs
func PractitionersToResponses(practitioners []entity.Practitioner) []dto.PractitionerResponse {
	responses := make([]dto.PractitionerResponse, len(practitioners))
	for i := range practitioners {
		responses[i] = *PractitionerToResponse(&practitioners[i])
	}
	return responses
}
