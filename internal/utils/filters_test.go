package utils

import (
	"reflect"
	"testing"

	"kestrel/internal/models"
)

func TestBoolParam(t *testing.T) {
	cases := []struct {
		raw             string
		wantValue       bool
		wantConstrained bool
	}{
		{"true", true, true},
		{"false", false, false},
		{"", false, false},
		{"TRUE", false, false},
		{"1", false, false},
		{"yes", false, false},
	}

	for _, tc := range cases {
		t.Run("raw="+tc.raw, func(t *testing.T) {
			value, constrained := BoolParam(tc.raw)
			if value != tc.wantValue || constrained != tc.wantConstrained {
				t.Fatalf("BoolParam(%q) = (%v, %v), want (%v, %v)",
					tc.raw, value, constrained, tc.wantValue, tc.wantConstrained)
			}
		})
	}
}

func TestSplitMulti(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "welding", []string{"welding"}},
		{"multiple", "welding,rigging,first_aid", []string{"welding", "rigging", "first_aid"}},
		{"whitespace trimmed", " welding , rigging ", []string{"welding", "rigging"}},
		{"empty parts dropped", "welding,,rigging,", []string{"welding", "rigging"}},
		{"only commas", ",,,", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitMulti(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitMulti(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestWorkerFilter(t *testing.T) {
	db := newTestDB(t, "worker_filter")

	workers := []models.Worker{
		{EmployeeID: "KM-3001", FirstName: "Grace", LastName: "Okafor", Department: "Operations", Status: models.WorkerStatusActive},
		{EmployeeID: "KM-3002", FirstName: "Daniel", LastName: "Reyes", Department: "Operations", Status: models.WorkerStatusInactive},
		{EmployeeID: "KM-3003", FirstName: "Mia", LastName: "Thompson", Department: "Exploration", Status: models.WorkerStatusActive},
	}
	for i := range workers {
		if err := db.Create(&workers[i]).Error; err != nil {
			t.Fatalf("seeding workers: %v", err)
		}
	}

	skills := []models.Skill{
		{WorkerID: workers[0].ID, Name: "welding", Level: models.SkillLevelAdvanced},
		{WorkerID: workers[1].ID, Name: "rigging", Level: models.SkillLevelBasic},
		{WorkerID: workers[2].ID, Name: "welding", Level: models.SkillLevelBasic},
	}
	for i := range skills {
		if err := db.Create(&skills[i]).Error; err != nil {
			t.Fatalf("seeding skills: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter WorkerFilter
		want   int
	}{
		{"no constraints", WorkerFilter{}, 3},
		{"status passthrough", WorkerFilter{Status: "active"}, 2},
		{"department passthrough", WorkerFilter{Department: "Exploration"}, 1},
		{"search is case-insensitive", WorkerFilter{Search: "GRACE"}, 1},
		{"search spans employee id", WorkerFilter{Search: "km-300"}, 3},
		{"one skill", WorkerFilter{Skills: []string{"welding"}}, 2},
		{"at least one of many skills", WorkerFilter{Skills: []string{"welding", "rigging"}}, 3},
		{"unknown skill", WorkerFilter{Skills: []string{"scaffolding"}}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []models.Worker
			if err := tc.filter.Apply(db.Model(&models.Worker{})).Find(&got).Error; err != nil {
				t.Fatalf("applying filter: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("matched %d workers, want %d", len(got), tc.want)
			}
		})
	}
}
