// Package planner works out which parts to buy before building a set of
// BOMs a number of times each, given the stock a profile already holds.
package planner

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/suggest"
)

var (
	ErrNoBuilds    = errors.New("builds must be at least 1")
	ErrNoSelection = errors.New("no BOMs selected")
)

// PartLister loads the lines of a BOM. *partsclient.Client satisfies it.
type PartLister interface {
	BomParts(ctx context.Context, bomID int64) ([]partsclient.BomPart, error)
}

// Selection is a BOM to be built Builds times.
type Selection struct {
	Bom    partsclient.Bom
	Builds int64
}

// Source records how much of a requirement one BOM contributes.
type Source struct {
	BomID   int64  `json:"bom_id"`
	BomName string `json:"bom_name"`
	Needed  int64  `json:"quantity_needed"`
	Builds  int64  `json:"builds"`
}

// Requirement is the total demand for one part across all selected BOMs.
type Requirement struct {
	Part      partsclient.PartWithStock `json:"part"`
	Required  int64                     `json:"required"`
	Shortfall int64                     `json:"shortfall"`
	Sources   []Source                  `json:"sources"`
}

// RequiredBy lists the BOMs behind a requirement, e.g. "synth, pedal(6)".
// The count is shown only when it differs from the number of builds.
func (r Requirement) RequiredBy() string {
	names := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		if s.Needed == s.Builds {
			names = append(names, s.BomName)
		} else {
			names = append(names, fmt.Sprintf("%s(%d)", s.BomName, s.Needed))
		}
	}
	return strings.Join(names, ", ")
}

// Calculate sums the parts of every selection and compares them to stock.
// The result is sorted by part name.
func Calculate(ctx context.Context, src PartLister, sels []Selection) ([]Requirement, error) {
	if len(sels) == 0 {
		return nil, ErrNoSelection
	}
	seen := make(map[int64]bool, len(sels))
	for _, sel := range sels {
		if sel.Builds < 1 {
			return nil, fmt.Errorf("%s: %w", sel.Bom.Name, ErrNoBuilds)
		}
		if seen[sel.Bom.ID] {
			return nil, fmt.Errorf("BOM %s selected more than once", sel.Bom.Name)
		}
		seen[sel.Bom.ID] = true
	}

	byPart := make(map[int64]*Requirement)
	for _, sel := range sels {
		lines, err := src.BomParts(ctx, sel.Bom.ID)
		if err != nil {
			return nil, fmt.Errorf("parts of %s: %w", sel.Bom.Name, err)
		}
		for _, line := range lines {
			needed := line.Count * sel.Builds
			req, ok := byPart[line.ID]
			if !ok {
				req = &Requirement{Part: line.PartWithStock}
				byPart[line.ID] = req
			}
			req.Required += needed
			req.Sources = append(req.Sources, Source{
				BomID:   sel.Bom.ID,
				BomName: sel.Bom.Name,
				Needed:  needed,
				Builds:  sel.Builds,
			})
		}
	}

	out := make([]Requirement, 0, len(byPart))
	for _, req := range byPart {
		req.Shortfall = max(req.Required-req.Part.Stock, 0)
		out = append(out, *req)
	}
	slices.SortFunc(out, func(a, b Requirement) int {
		return cmp.Or(cmp.Compare(a.Part.Name, b.Part.Name), cmp.Compare(a.Part.ID, b.Part.ID))
	})
	return out, nil
}

// Missing returns the requirements that stock does not cover.
func Missing(reqs []Requirement) []Requirement {
	var out []Requirement
	for _, r := range reqs {
		if r.Shortfall > 0 {
			out = append(out, r)
		}
	}
	return out
}

// csvHeader is the column order of exported plans.
var csvHeader = []string{"Part Name", "Description", "Current Stock", "Total Required", "Need to Purchase", "Required By"}

// WriteCSV exports a plan with a header row.
func WriteCSV(w io.Writer, reqs []Requirement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reqs {
		err := cw.Write([]string{
			r.Part.Name,
			r.Part.Description,
			strconv.FormatInt(r.Part.Stock, 10),
			strconv.FormatInt(r.Required, 10),
			strconv.FormatInt(r.Shortfall, 10),
			r.RequiredBy(),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseSelection splits a "<bom>[=builds]" argument. The BOM may be given
// by name or id; builds defaults to 1.
func ParseSelection(arg string) (ref string, builds int64, err error) {
	ref, count, hasCount := strings.Cut(arg, "=")
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", 0, fmt.Errorf("missing BOM in %q", arg)
	}
	if !hasCount {
		return ref, 1, nil
	}
	builds, err = strconv.ParseInt(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid build count in %q", arg)
	}
	if builds < 1 {
		return "", 0, fmt.Errorf("%q: %w", arg, ErrNoBuilds)
	}
	return ref, builds, nil
}

// Resolve finds the BOM named by ref, matching the id first and then the
// name without regard to case.
func Resolve(boms []partsclient.Bom, ref string) (partsclient.Bom, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, b := range boms {
			if b.ID == id {
				return b, nil
			}
		}
	}
	var found []partsclient.Bom
	for _, b := range boms {
		if strings.EqualFold(b.Name, ref) {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		names := make([]string, len(boms))
		for i, b := range boms {
			names[i] = b.Name
		}
		if s := suggest.Closest(ref, names); s != "" {
			return partsclient.Bom{}, fmt.Errorf("no BOM %q (did you mean %q?)", ref, s)
		}
		return partsclient.Bom{}, fmt.Errorf("no BOM %q", ref)
	default:
		return partsclient.Bom{}, fmt.Errorf("%d BOMs are named %q, use the id", len(found), ref)
	}
}
