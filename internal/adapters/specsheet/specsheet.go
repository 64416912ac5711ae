// Package specsheet renders one-page PDF spec sheets for catalog vessels.
package specsheet

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

const qrImageName = "vessel-qr"

type Renderer struct {
	siteURL string
}

// NewRenderer returns a renderer whose QR codes link to siteURL/yachts/{slug}.
func NewRenderer(siteURL string) *Renderer {
	return &Renderer{siteURL: strings.TrimRight(siteURL, "/")}
}

// PublicURL is the vessel's page on the public site.
func (r *Renderer) PublicURL(slug domain.VesselSlug) string {
	return r.siteURL + "/yachts/" + string(slug)
}

func (r *Renderer) Render(w io.Writer, v domain.Vessel) error {
	qr, err := qrcode.Encode(r.PublicURL(v.Slug), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(v.Name+" specification", true)
	pdf.SetAuthor("Meridian Yachting", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, tr(v.Name))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%d %s %s", v.Year, v.Manufacturer, v.Model)
	if v.Variant != nil && *v.Variant != "" {
		sub += " " + *v.Variant
	}
	pdf.Cell(0, 7, tr(sub))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(FormatPrice(v.Price, v.Currency)+"  |  "+strings.ToUpper(v.Status.External())))
	pdf.Ln(12)

	var opt gofpdf.ImageOptions
	opt.ImageType = "png"
	pdf.RegisterImageOptionsReader(qrImageName, opt, bytes.NewReader(qr))
	pdf.ImageOptions(qrImageName, 160, 12, 35, 0, false, opt, 0, r.PublicURL(v.Slug))

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range Rows(v) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 7, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	desc := v.ShortDescription
	if desc == nil {
		desc = v.Description
	}
	if desc != nil && *desc != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(*desc), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr("Particulars are believed correct but not guaranteed. "+r.PublicURL(v.Slug)), "", "L", false)

	return pdf.Output(w)
}

// Rows lists the label/value pairs printed in the spec table, skipping unknown values.
func Rows(v domain.Vessel) [][2]string {
	rows := [][2]string{
		{"Length overall", formatMeters(v.LengthMeters)},
	}
	addF := func(label string, f *float64, unit string) {
		if f != nil {
			rows = append(rows, [2]string{label, strconv.FormatFloat(*f, 'f', -1, 64) + unit})
		}
	}
	addI := func(label string, n *int, unit string) {
		if n != nil {
			rows = append(rows, [2]string{label, strconv.Itoa(*n) + unit})
		}
	}
	addS := func(label string, s *string) {
		if s != nil && *s != "" {
			rows = append(rows, [2]string{label, *s})
		}
	}
	addF("Beam", v.BeamMeters, " m")
	addF("Draft", v.DraftMeters, " m")
	rows = append(rows,
		[2]string{"Guests", strconv.Itoa(v.Guests)},
		[2]string{"Cabins", strconv.Itoa(v.Cabins)},
		[2]string{"Crew", strconv.Itoa(v.Crew)},
	)
	addF("Max speed", v.MaxSpeedKnots, " kn")
	addF("Cruising speed", v.CruisingSpeedKnots, " kn")
	addI("Range", v.RangeNM, " nm")
	addI("Fuel capacity", v.FuelCapacityL, " L")
	addI("Water capacity", v.WaterCapacityL, " L")
	addS("Availability", v.Availability)

	s := v.Specs
	addS("Hull material", s.HullMaterial)
	addS("Designer", s.Designer)
	addS("Builder", s.Builder)
	addS("Engines", s.Engines)
	addS("Generator", s.Generator)
	addS("Flag", s.Flag)
	addS("Classification", s.Classification)
	addI("Refit", s.RefitYear, "")

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, [2]string{k, fmt.Sprint(s.Extra[k])})
	}
	return rows
}

// FormatPrice renders whole-unit prices with thousands separators, e.g. "USD 2,450,000".
func FormatPrice(price float64, currency string) string {
	whole := strconv.FormatInt(int64(price), 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 && whole[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return currency + " " + b.String()
}

func formatMeters(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + " m"
}
