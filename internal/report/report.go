// Package report formats the textual summary printed before the plot opens.
package report

import (
	"fmt"
	"io"

	"lightcone/spacetime"
)

// Lang selects the output language.
type Lang string

const (
	LangDE Lang = "de"
	LangEN Lang = "en"
)

// Text holds every user-visible string for one language.
type Text struct {
	Header     string
	Hypotenuse string
	SumSquares string
	Question   string
	Yes        string
	No         string

	Title       string
	XLabel      string
	YLabel      string
	ZLabel      string
	PhotonPath  string
	HypLegend   string
	SpaceYLabel string
	SpaceXLabel string
}

var texts = map[Lang]Text{
	LangDE: {
		Header:     "Beweis des Satzes des Pythagoras in der Raumzeit:",
		Hypotenuse: "Länge der Hypotenuse (ct)",
		SumSquares: "Summe der Quadrate der Katheten (x² + y²)",
		Question:   "Erfüllt der Satz des Pythagoras?",
		Yes:        "Ja",
		No:         "Nein",

		Title:       "Beweis des Satzes des Pythagoras in der Raumzeit",
		XLabel:      "X (Raumdimension in Metern)",
		YLabel:      "Y (Raumdimension in Metern)",
		ZLabel:      "ct (Raumzeit in Metern)",
		PhotonPath:  "Photon Pfad",
		HypLegend:   "Hypotenuse (ct)",
		SpaceYLabel: "Raumdimension Y",
		SpaceXLabel: "Raumdimension X",
	},
	LangEN: {
		Header:     "Proof of the Pythagorean theorem in spacetime:",
		Hypotenuse: "Length of the hypotenuse (ct)",
		SumSquares: "Sum of the squares of the legs (x² + y²)",
		Question:   "Does the Pythagorean theorem hold?",
		Yes:        "Yes",
		No:         "No",

		Title:       "Proof of the Pythagorean theorem in spacetime",
		XLabel:      "X (space dimension in meters)",
		YLabel:      "Y (space dimension in meters)",
		ZLabel:      "ct (spacetime in meters)",
		PhotonPath:  "Photon path",
		HypLegend:   "Hypotenuse (ct)",
		SpaceYLabel: "Space dimension Y",
		SpaceXLabel: "Space dimension X",
	},
}

// Supported reports whether l has a text table.
func Supported(l Lang) bool {
	_, ok := texts[l]
	return ok
}

// TextFor returns the strings for l, falling back to German.
func TextFor(l Lang) Text {
	if t, ok := texts[l]; ok {
		return t
	}
	return texts[LangDE]
}

// Verdict returns the yes/no word for holds.
func (t Text) Verdict(holds bool) string {
	if holds {
		return t.Yes
	}
	return t.No
}

// Lines returns the four report lines for r.
func Lines(r spacetime.Result, l Lang) []string {
	t := TextFor(l)
	return []string{
		t.Header,
		fmt.Sprintf("%s: %.2f", t.Hypotenuse, r.CT),
		fmt.Sprintf("%s: %.2f", t.SumSquares, r.SumOfSquares),
		fmt.Sprintf("%s %s", t.Question, t.Verdict(r.Holds)),
	}
}

// Write prints the report for r to w, one line each.
func Write(w io.Writer, r spacetime.Result, l Lang) error {
	for _, line := range Lines(r, l) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("report: write: %w", err)
		}
	}
	return nil
}
