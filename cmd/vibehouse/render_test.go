package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vibehouse/internal/model"
	"vibehouse/internal/service"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const sampleVibe = "cozy farmhouse with 3 bedrooms, a wine cellar and a budget of $400k-$550k"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"table", false},
		{"json", false},
		{"yaml", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := validateFormat(tt.format); (err != nil) != tt.wantErr {
				t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestWriteStructured(t *testing.T) {
	spec := service.NewVibeParser().Parse(sampleVibe)

	var jsonOut bytes.Buffer
	if err := writeStructured(&jsonOut, formatJSON, spec); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON model.RequirementSpecification
	if err := json.Unmarshal(jsonOut.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if fromJSON.Style != "farmhouse" || fromJSON.Bedrooms != 3 {
		t.Errorf("json output = %+v", fromJSON)
	}

	var yamlOut bytes.Buffer
	if err := writeStructured(&yamlOut, formatYAML, spec); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML model.RequirementSpecification
	if err := yaml.Unmarshal(yamlOut.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.BudgetRange != spec.BudgetRange {
		t.Errorf("yaml budget = %+v, want %+v", fromYAML.BudgetRange, spec.BudgetRange)
	}
}

func TestRenderPreview(t *testing.T) {
	color.NoColor = true

	ranker := service.NewBudgetRanker(0.6, 0.25, 0.15)
	pipeline := service.NewPipelineOrchestrator(nil, ranker, "", nil)
	spec, bundles := pipeline.Evaluate(sampleVibe, "Denver")

	var out bytes.Buffer
	renderPreview(&out, &model.PreviewResponse{Requirements: spec, Options: bundles}, ranker)

	text := out.String()
	if got := strings.Count(text, "recommended"); got != 1 {
		t.Errorf("expected exactly one recommended option, got %d\n%s", got, text)
	}
	for _, want := range []string{"Style:      farmhouse", "Wine Cellar", "Denver"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}
}

func TestWithinBudget(t *testing.T) {
	bundles := []model.OptionBundle{
		{BudgetFit: model.BudgetFit{WithinBudget: true}},
		{BudgetFit: model.BudgetFit{WithinBudget: false}},
		{BudgetFit: model.BudgetFit{WithinBudget: true}},
	}
	if got := withinBudget(bundles); got != 2 {
		t.Errorf("withinBudget = %d, want 2", got)
	}
	if got := withinBudget(nil); got != 0 {
		t.Errorf("withinBudget(nil) = %d, want 0", got)
	}
}
