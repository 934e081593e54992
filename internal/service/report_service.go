package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	ContentTypePDF = "application/pdf"
	NotRecorded    = "No registrado"
)

// ReportField is one label/value row of a report table.
type ReportField struct {
	Label string
	Value string
}

// ReportInput is a fully formatted examination. Renderers never compute or
// look anything up; every string is printed as given.
type ReportInput struct {
	ClinicName       string
	ExaminationID    int64
	ExamDate         string
	Patient          []ReportField
	Practitioner     []ReportField
	Vitals           []ReportField
	Symptoms         string
	Diagnosis        string
	Treatment        string
	RequestedStudies string
	// Record is appended when the report is produced from a clinical record.
	Record []ReportField
}

// Document is a rendered report. Callers assign Filename.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ReportRenderer interface {
	Render(in ReportInput) (*Document, error)
}

type reportSection struct {
	title  string
	fields []ReportField
	text   string
}

// sections lays out the fixed section order. Requested studies and the
// record block only appear when present.
func sections(in ReportInput) []reportSection {
	out := []reportSection{
		{title: "Datos del paciente", fields: in.Patient},
		{title: "Datos del médico", fields: in.Practitioner},
		{title: "Signos vitales", fields: in.Vitals},
		{title: "Síntomas", text: in.Symptoms},
		{title: "Diagnóstico", text: in.Diagnosis},
		{title: "Tratamiento", text: in.Treatment},
	}
	if strings.TrimSpace(in.RequestedStudies) != "" {
		out = append(out, reportSection{title: "Estudios solicitados", text: in.RequestedStudies})
	}
	if len(in.Record) > 0 {
		out = append(out, reportSection{title: "Expediente clínico", fields: in.Record})
	}
	return out
}

type pdfRenderer struct {
	pageSize string
}

func NewPDFRenderer() ReportRenderer {
	return &pdfRenderer{pageSize: "Letter"}
}

func (r *pdfRenderer) Render(in ReportInput) (*Document, error) {
	pdf := fpdf.New("P", "mm", r.pageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(fmt.Sprintf("Exploración %d", in.ExaminationID), true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("RECETA MÉDICA"), "", 1, "C", false, 0, "")
	if in.ClinicName != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(in.ClinicName), "", 1, "C", false, 0, "")
	}
	if in.ExamDate != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("Fecha: "+in.ExamDate), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	for _, s := range sections(in) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 236, 245)
		pdf.CellFormat(0, 8, tr(s.title), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		if len(s.fields) > 0 {
			for _, f := range s.fields {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.CellFormat(55, 7, tr(f.Label), "1", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 10)
				pdf.MultiCell(0, 7, tr(f.Value), "1", "L", false)
			}
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(s.text), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render examination %d: %w", in.ExaminationID, err)
	}

	return &Document{
		ContentType: ContentTypePDF,
		Body:        buf.Bytes(),
	}, nil
}
