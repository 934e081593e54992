package converter

import (
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
)

// CredentialToResponse converts a Credential entity to CredentialResponse DTO.
// The password hash never leaves the usecase layer.
func CredentialToResponse(credential *entity.Credential) *dto.CredentialResponse {
	if credential == nil {
		return nil
	}

	return &dto.CredentialResponse{
		ID:         credential.ID,
		Identifier: credential.Identifier,
		Privilege:  credential.Privilege,
		Elevated:   credential.IsElevated(),
		Active:     credential.Active,
		CreatedAt:  credential.CreatedAt,
		UpdatedAt:  credential.UpdatedAt,
	}
}

func CredentialsToResponses(credentials []entity.Credential) []dto.CredentialResponse {
	responses := make([]dto.CredentialResponse, len(credentials))
	for i := range credentials {
		responses[i] = *CredentialToResponse(&credentials[i])
	}
	return responses
}
