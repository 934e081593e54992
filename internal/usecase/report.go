package usecase

import (
	"fmt"

	"medical-center/internal/domain/entity"
	"medical-center/internal/service"

	"github.com/shopspring/decimal"
)

const reportDateLayout = "02/01/2006"

func ExaminationReportFilename(id int64) string {
	return fmt.Sprintf("exploracion_%d.pdf", id)
}

func RecordReportFilename(examinationID int64) string {
	return fmt.Sprintf("reporte_exploracion_%d.pdf", examinationID)
}

func genderLabel(g string) string {
	switch g {
	case entity.GenderMale:
		return "Masculino"
	case entity.GenderFemale:
		return "Femenino"
	}
	return g
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func measured(v decimal.NullDecimal, unit string) string {
	if !v.Valid {
		return service.NotRecorded
	}
	return v.Decimal.String() + " " + unit
}

// examinationReport formats an examination with its preloaded patient and
// practitioner. Age is computed as of the examination date.
func examinationReport(clinicName string, exam *entity.Examination) service.ReportInput {
	in := service.ReportInput{
		ClinicName:    clinicName,
		ExaminationID: exam.ID,
		ExamDate:      exam.Date.Format(reportDateLayout),
		Symptoms:      exam.Symptoms,
		Diagnosis:     exam.Diagnosis,
		Treatment:     exam.Treatment,
	}
	if exam.RequestedStudies != nil {
		in.RequestedStudies = *exam.RequestedStudies
	}

	if p := exam.Patient; p != nil {
		in.Patient = []service.ReportField{
			{Label: "Nombre", Value: p.FullName()},
			{Label: "Fecha de nacimiento", Value: p.BirthDate.Format(reportDateLayout)},
			{Label: "Edad", Value: fmt.Sprintf("%d años", p.AgeAt(exam.Date))},
			{Label: "Género", Value: genderLabel(p.Gender)},
			{Label: "Tipo de sangre", Value: p.BloodType},
			{Label: "Alergias", Value: orDefault(p.Allergies, "Ninguna conocida")},
		}
	}

	if d := exam.Practitioner; d != nil {
		in.Practitioner = []service.ReportField{
			{Label: "Nombre", Value: d.FullName()},
			{Label: "Especialidad", Value: d.Specialty},
			{Label: "Cédula profesional", Value: d.LicenseNumber},
		}
		if d.Site != nil {
			in.Practitioner = append(in.Practitioner, service.ReportField{Label: "Consultorio", Value: *d.Site})
		}
	}

	v := exam.Vitals
	heartRate := service.NotRecorded
	if v.HeartRateBPM != nil {
		heartRate = fmt.Sprintf("%d lpm", *v.HeartRateBPM)
	}
	in.Vitals = []service.ReportField{
		{Label: "Peso", Value: measured(v.WeightKg, "kg")},
		{Label: "Estatura", Value: measured(v.HeightM, "m")},
		{Label: "Temperatura", Value: measured(v.TemperatureC, "°C")},
		{Label: "Frecuencia cardiaca", Value: heartRate},
		{Label: "Saturación de oxígeno", Value: measured(v.OxygenSaturation, "%")},
		{Label: "Glucosa", Value: measured(v.GlucoseMgDL, "mg/dL")},
	}

	return in
}

// recordReport extends the examination report with the record's own fields.
// Optional fields are only listed when present.
func recordReport(clinicName string, record *entity.ClinicalRecord, exam *entity.Examination) service.ReportInput {
	in := examinationReport(clinicName, exam)

	in.Record = []service.ReportField{
		{Label: "Número de expediente", Value: record.RecordNumber},
		{Label: "Diagnóstico principal", Value: record.PrimaryDiagnosis},
	}
	optional := []struct {
		label string
		value *string
	}{
		{"Diagnósticos secundarios", record.SecondaryDiagnoses},
		{"Plan de tratamiento", record.TreatmentPlan},
		{"Medicamentos prescritos", record.PrescribedMedication},
		{"Notas clínicas", record.ClinicalNotes},
		{"Recomendaciones", record.Recommendations},
	}
	for _, f := range optional {
		if f.value != nil && *f.value != "" {
			in.Record = append(in.Record, service.ReportField{Label: f.label, Value: *f.value})
		}
	}

	return in
}
