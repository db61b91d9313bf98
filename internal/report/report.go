// Package report renders a printable PDF of a duel: an old-parchment page
// with a health chart over the rounds and a round-by-round log.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"defight/internal/arena"
	"defight/internal/combat"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	fontSize  = 8
	titleSize = 16
	rowH      = 14.0
	chartH    = 160.0
)

// Generate returns PDF bytes for rec.
func Generate(rec arena.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	newPage(pdf)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin+12, margin+12)
	pdf.CellFormat(pageW-2*margin-24, 18, "Duel Report", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize+1)
	y := float64(margin + 36)
	for _, line := range []string{
		"Duel: " + rec.ID,
		"Account: " + rec.Owner,
		fmt.Sprintf("Stake: %d", rec.Stake),
		"Outcome: " + outcome(rec.Duel),
	} {
		pdf.SetXY(margin+12, y)
		pdf.CellFormat(300, 12, line, "", 0, "L", false, 0, "")
		y += 12
	}
	if _, decided := rec.Duel.Result(); decided {
		drawSwords(pdf, pageW-margin-50, margin+50, 18)
	}

	y += 10
	drawHealthChart(pdf, margin+12, y, pageW-2*margin-24, chartH, rec)
	y += chartH + 24

	y = drawRoundHeader(pdf, y)
	for i, r := range rec.Rounds {
		if y+rowH > pageH-margin-12 {
			newPage(pdf)
			y = drawRoundHeader(pdf, margin+16)
		}
		drawRoundRow(pdf, y, i+1, r)
		y += rowH
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func outcome(d combat.Duel) string {
	winner, decided := d.Result()
	switch {
	case !decided:
		return "in progress"
	case winner == combat.Draw:
		return "draw"
	}
	w, _ := d.Warrior(winner)
	if w.Owner != "" {
		return fmt.Sprintf("warrior %d (%s) won", winner, w.Owner)
	}
	return fmt.Sprintf("warrior %d won", winner)
}

func newPage(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawFrame(pdf)
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetLineWidth(1)
}

// drawHealthChart plots both warriors' health after each round, starting
// from the health before the first round.
func drawHealthChart(pdf *gofpdf.Fpdf, x, y, w, h float64, rec arena.Record) {
	pdf.SetDrawColor(80, 50, 30)
	pdf.Rect(x, y, w, h, "D")

	h1, h2 := healthSeries(rec)
	top := uint32(1)
	for i := range h1 {
		top = max(top, h1[i], h2[i])
	}

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(x+4, y+2)
	pdf.CellFormat(60, 10, fmt.Sprintf("HP %d", top), "", 0, "L", false, 0, "")

	plot := func(series []uint32, r, g, b int) {
		pdf.SetDrawColor(r, g, b)
		pdf.SetLineWidth(2)
		steps := float64(max(len(series)-1, 1))
		for i := 0; i+1 < len(series); i++ {
			x1 := x + w*float64(i)/steps
			x2 := x + w*float64(i+1)/steps
			y1 := y + h - h*float64(series[i])/float64(top)
			y2 := y + h - h*float64(series[i+1])/float64(top)
			pdf.Line(x1, y1, x2, y2)
		}
		pdf.SetLineWidth(1)
	}
	plot(h1, 40, 80, 160)
	plot(h2, 180, 40, 40)

	pdf.SetTextColor(40, 80, 160)
	pdf.SetXY(x+w-120, y+2)
	pdf.CellFormat(56, 10, "Warrior 1", "", 0, "R", false, 0, "")
	pdf.SetTextColor(180, 40, 40)
	pdf.CellFormat(60, 10, "Warrior 2", "", 0, "R", false, 0, "")
	pdf.SetTextColor(80, 50, 30)
	pdf.SetDrawColor(80, 50, 30)
}

func healthSeries(rec arena.Record) (h1, h2 []uint32) {
	h1 = append(h1, rec.Start.Warrior1.Health)
	h2 = append(h2, rec.Start.Warrior2.Health)
	for _, r := range rec.Rounds {
		h1 = append(h1, r.Duel.Warrior1.Health)
		h2 = append(h2, r.Duel.Warrior2.Health)
	}
	return h1, h2
}

var columns = []struct {
	title string
	width float64
}{
	{"#", 24},
	{"Moves", 150},
	{"Opponent", 140},
	{"Dmg taken", 60},
	{"Dmg dealt", 60},
	{"HP", 81},
}

func drawRoundHeader(pdf *gofpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetXY(margin+12, y)
	for _, c := range columns {
		pdf.CellFormat(c.width, rowH, c.title, "B", 0, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
	return y + rowH
}

func drawRoundRow(pdf *gofpdf.Fpdf, y float64, n int, r combat.Round) {
	moves := make([]string, 0, 2)
	for _, m := range r.Moves[:min(len(r.Moves), 2)] {
		moves = append(moves, m.String())
	}
	if r.Duel.MissedAction1 {
		moves = append(moves, "(missed)")
	}
	cells := []string{
		fmt.Sprint(n),
		strings.Join(moves, " "),
		fmt.Sprintf("Attack:%s Protect:%s", r.Opponent.Attack, r.Opponent.Protect),
		fmt.Sprint(r.Damage1),
		fmt.Sprint(r.Damage2),
		fmt.Sprintf("%d / %d", r.Duel.Warrior1.Health, r.Duel.Warrior2.Health),
	}
	pdf.SetXY(margin+12, y)
	for i, c := range columns {
		pdf.CellFormat(c.width, rowH, cells[i], "", 0, "L", false, 0, "")
	}
}

// drawFrame draws a notched outer border with a thin rule inside it.
func drawFrame(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(notchedFrame(margin, margin, pageW-2*margin, pageH-2*margin, 18, 3), "D")
	pdf.SetLineWidth(0.5)
	pdf.Rect(margin+6, margin+6, pageW-2*margin-12, pageH-2*margin-12, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// notchedFrame walks the rectangle clockwise from its top-left corner,
// pushing every other point along an edge outward by depth. Each edge gets
// `notches` segments; corners are never pushed so the outline stays square.
func notchedFrame(x, y, w, h float64, notches int, depth float64) []gofpdf.PointType {
	corners := [4]gofpdf.PointType{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	// Outward normal of each edge, in walk order.
	normals := [4]gofpdf.PointType{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

	pts := make([]gofpdf.PointType, 0, 4*notches)
	for e := range corners {
		from, to := corners[e], corners[(e+1)%4]
		for i := 0; i < notches; i++ {
			t := float64(i) / float64(notches)
			p := gofpdf.PointType{
				X: from.X + t*(to.X-from.X),
				Y: from.Y + t*(to.Y-from.Y),
			}
			if i%2 == 1 {
				p.X += depth * normals[e].X
				p.Y += depth * normals[e].Y
			}
			pts = append(pts, p)
		}
	}
	return pts
}

// drawSwords marks a decided duel with crossed blades.
func drawSwords(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.5)
	pdf.Line(x-r, y-r, x+r, y+r)
	pdf.Line(x-r, y+r, x+r, y-r)
	pdf.Line(x-r*0.7, y-r*0.3, x-r*0.3, y-r*0.7)
	pdf.Line(x+r*0.7, y-r*0.3, x+r*0.3, y-r*0.7)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}
