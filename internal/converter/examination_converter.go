package converter

import (
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// VitalsFromRequest converts measured values to their stored form. Absent
// values stay NULL.
func VitalsFromRequest(req dto.VitalsRequest) entity.Vitals {
	return entity.Vitals{
		WeightKg:         nullDecimal(req.WeightKg),
		HeightM:          nullDecimal(req.HeightM),
		TemperatureC:     nullDecimal(req.TemperatureC),
		HeartRateBPM:     req.HeartRateBPM,
		OxygenSaturation: nullDecimal(req.OxygenSaturation),
		GlucoseMgDL:      nullDecimal(req.GlucoseMgDL),
	}
}

func nullDecimal(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func decimalString(v decimal.NullDecimal) *string {
	if !v.Valid {
		return nil
	}
	s := v.Decimal.String()
	return &s
}

func VitalsToResponse(v entity.Vitals) dto.VitalsResponse {
	return dto.VitalsResponse{
		WeightKg:         decimalString(v.WeightKg),
		HeightM:          decimalString(v.HeightM),
		TemperatureC:     decimalString(v.TemperatureC),
		HeartRateBPM:     v.HeartRateBPM,
		OxygenSaturation: decimalString(v.OxygenSaturation),
		GlucoseMgDL:      decimalString(v.GlucoseMgDL),
	}
}

// ExaminationToResponse converts an Examination entity to ExaminationResponse DTO
func ExaminationToResponse(examination *entity.Examination) *dto.ExaminationResponse {
	if examination == nil {
		return nil
	}

	response := &dto.ExaminationResponse{
		ID:               examination.ID,
		AppointmentID:    examination.AppointmentID,
		PatientID:        examination.PatientID,
		PractitionerID:   examination.PractitionerID,
		Date:             examination.Date.Format(entity.DateLayout),
		Vitals:           VitalsToResponse(examination.Vitals),
		Symptoms:         examination.Symptoms,
		Diagnosis:        examination.Diagnosis,
		Treatment:        examination.Treatment,
		RequestedStudies: examination.RequestedStudies,
		Active:           examination.Active,
		CreatedAt:        examination.CreatedAt,
		UpdatedAt:        examination.UpdatedAt,
	}

	if examination.Patient != nil {
		response.PatientName = examination.Patient.FullName()
	}
	if examination.Practitioner != nil {
		response.PractitionerName = examination.Practitioner.FullName()
	}

	return response
}

// ExaminationsToResponses converts a slice of Examination entities to slice of ExaminationResponse DTOs
func ExaminationsToResponses(examinations []entity.Examination) []dto.ExaminationResponse {
	responses := make([]dto.ExaminationResponse, len(examinations))
	for i := range examinations {
		responses[i] = *ExaminationToResponse(&examinations[i])
	}
	return responses
}
