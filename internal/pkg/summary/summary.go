// Package summary renders the printable case summary attached to submissions.
package summary

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ezla-online/portal/internal/domain/model"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
	labelWidth = 55.0
)

// Core PDF fonts cover cp1252 only, so Polish letters are folded to ASCII.
var folder = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

var leaveTypeLabels = map[model.LeaveType]string{
	model.LeaveTypeSelf:       "Wlasna choroba",
	model.LeaveTypeChildCare:  "Opieka nad dzieckiem",
	model.LeaveTypeFamilyCare: "Opieka nad czlonkiem rodziny",
}

// Render builds the PDF summary of a case and its requester profile.
func Render(c *model.Case, p *model.Profile, generatedAt time.Time) (out []byte, err error) {
	if c == nil || p == nil {
		return nil, fmt.Errorf("summary: case and profile are required")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("summary: render panic: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("e-ZLA "+c.CaseNumber, false)
	pdf.SetCreator("ezla-portal", false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, fold("Podsumowanie zgloszenia "+c.CaseNumber), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, lineHeight, "Wygenerowano: "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Dane pacjenta")
	row(pdf, "Imie i nazwisko", p.FirstName+" "+p.LastName)
	row(pdf, "PESEL", p.PESEL)
	row(pdf, "Data urodzenia", p.DateOfBirth.Format(time.DateOnly))
	row(pdf, "E-mail", p.Email)
	row(pdf, "Telefon", p.PhoneNumber)
	row(pdf, "Adres", address(p))

	section(pdf, "Zwolnienie")
	row(pdf, "Okres", c.IllnessFrom.Format(time.DateOnly)+" - "+c.IllnessTo.Format(time.DateOnly))
	row(pdf, "Rodzaj", leaveTypeLabel(c.LeaveType))
	row(pdf, "Objawy", strings.Join(c.Symptoms, ", "))

	section(pdf, "Wywiad medyczny")
	keys := make([]string, 0, len(c.Interview))
	for k := range c.Interview {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row(pdf, k, c.Interview[k])
	}

	section(pdf, "Platnosc")
	row(pdf, "Kwota", c.Amount+" "+c.Currency)
	row(pdf, "Status", string(c.PaymentStatus))

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, fold(title), "B", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(labelWidth, lineHeight, fold(label), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, lineHeight, fold(value), "", "L", false)
}

func address(p *model.Profile) string {
	street := p.Address + " " + p.HouseNumber
	if p.FlatNumber != "" {
		street += "/" + p.FlatNumber
	}
	return street + ", " + p.PostalCode + " " + p.City
}

func leaveTypeLabel(t model.LeaveType) string {
	if label, ok := leaveTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

func fold(s string) string {
	return folder.Replace(s)
}
