package main

import (
	"fmt"
	"io"
	"strings"

	"vibehouse/internal/model"
	"vibehouse/internal/service"
	"vibehouse/internal/utils"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

func writeStructured(w io.Writer, format string, v any) error {
	var (
		out string
		err error
	)
	if format == formatYAML {
		out, err = utils.PrettyPrintYAML(v)
	} else {
		out, err = utils.PrettyPrintJSON(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

func renderRequirements(w io.Writer, spec model.RequirementSpecification) {
	utils.TitleColor.Fprintln(w, "Requirements")
	fmt.Fprintf(w, "  Bedrooms:   %d\n", spec.Bedrooms)
	fmt.Fprintf(w, "  Bathrooms:  %.1f\n", spec.Bathrooms)
	fmt.Fprintf(w, "  Floors:     %d\n", spec.Floors)
	fmt.Fprintf(w, "  Style:      %s\n", spec.Style)
	fmt.Fprintf(w, "  Budget:     %s - %s\n",
		utils.FormatUSD(float64(spec.BudgetRange.Low)), utils.FormatUSD(float64(spec.BudgetRange.High)))
	fmt.Fprintf(w, "  Target:     %d sqft on a %d sqft lot\n", spec.TargetSqft, spec.LotSqft)
	fmt.Fprintf(w, "  Garage:     %t\n", spec.Garage)
	fmt.Fprintf(w, "  Outdoor:    %t\n", spec.OutdoorSpace)
	if len(spec.SpecialRequirements) > 0 {
		fmt.Fprintf(w, "  Special:    %s\n", strings.Join(spec.SpecialRequirements, ", "))
	}
}

func renderPreview(w io.Writer, preview *model.PreviewResponse, ranker *service.BudgetRanker) {
	renderRequirements(w, preview.Requirements)

	options := make([]model.DesignOption, 0, len(preview.Options))
	for _, b := range preview.Options {
		options = append(options, b.Option)
	}
	ranked := ranker.Rank(options, preview.Requirements)
	recommended := ""
	if len(ranked) > 0 {
		recommended = ranked[0].Option.OptionID
	}

	for _, b := range preview.Options {
		fmt.Fprintln(w, strings.Repeat("─", 72))
		marker := ""
		if b.Option.OptionID == recommended {
			marker = utils.SuccessColor.Sprint("  ★ recommended")
		}
		utils.TitleColor.Fprintf(w, "%s (%s)", b.Option.Title, b.Option.OptionID)
		fmt.Fprintln(w, marker)
		fmt.Fprintf(w, "  %s\n", b.Option.Description)
		fmt.Fprintf(w, "  Size:        %d sqft, %d floor(s), %d rooms\n",
			b.Option.TotalSqft, b.Option.FloorCount(), len(b.Option.Rooms))
		fmt.Fprintf(w, "  Structure:   %s, %s\n", b.Engineering.FoundationType, b.Engineering.StructuralSystem)
		fmt.Fprintf(w, "  MEP:         %d circuits, %d fixtures, %.1f-ton HVAC\n",
			b.MEP.ElectricalCircuits, b.MEP.PlumbingFixtures, b.MEP.HVACTonnage)
		fmt.Fprintf(w, "  Cost:        %s (x%.2f %s)\n",
			utils.FormatUSD(b.Cost.GrandTotal), b.Cost.LocationMultiplier, displayLocation(b.Cost.Location))
		fit := utils.WarningColor
		if b.BudgetFit.WithinBudget {
			fit = utils.SuccessColor
		}
		fit.Fprintf(w, "  Budget fit:  %.3f", b.BudgetFit.Score)
		fmt.Fprintf(w, " [%s]\n", strings.Join(b.BudgetFit.MatchedReasons, ", "))
	}
}

func renderArtifacts(w io.Writer, resp *model.VibeResponse) {
	utils.TitleColor.Fprintf(w, "Project %s, run %s\n", resp.ProjectID, resp.RunID)
	for _, a := range resp.Artifacts {
		fmt.Fprintf(w, "  %2d  %-14s v%-3d %s  %s\n", a.Sequence, a.ArtifactType, a.Version, a.ID, a.Title)
	}
}

// withinBudget counts the options whose cost falls inside the budget
func withinBudget(bundles []model.OptionBundle) int {
	n := 0
	for _, b := range bundles {
		if b.BudgetFit.WithinBudget {
			n++
		}
	}
	return n
}

func displayLocation(loc string) string {
	if loc == "" {
		return "national average"
	}
	return loc
}
