// Package factstoretest provides a small synthetic knowledge graph for tests.
package factstoretest

import (
	"testing"

	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/model"
)

// Dataset returns the Lakeside demo graph: the weather bureau, the metro
// operator and the city, with one amber warning, one service status and
// one remit fact.
func Dataset() model.Dataset {
	return model.Dataset{
		Entities: []model.Entity{
			{ID: "ent_nwb", Name: "Northwind Weather Bureau", Type: "organization", Aliases: []string{"NWB", "Northwind Weather"}},
			{ID: "ent_lmr", Name: "Lakeside Metro Rail", Type: "organization", Aliases: []string{"LMR", "Lakeside Metro", "metro"}},
			{ID: "ent_lakeside", Name: "Lakeside City", Type: "place"},
		},
		Sources: []model.Source{
			{ID: "src_nwb_bulletin", Title: "Rain warning bulletin", Publisher: "Northwind Weather Bureau", URL: "https://www.northwind-weather.gov/warnings/2023-03-21"},
			{ID: "src_lmr_status", Title: "Service status", Publisher: "Lakeside Metro Rail", URL: "https://lakeside-metro.example.com/status", ReliabilityTier: "primary"},
			{ID: "src_nwb_faq", Title: "What the Bureau does", Publisher: "Northwind Weather Bureau", URL: "https://www.northwind-weather.gov/about/faq"},
		},
		Facts: []model.Fact{
			{
				ID:                "fact_nwb_amber",
				SubjectEntityID:   "ent_nwb",
				Predicate:         "issued_warning",
				ObjectLabel:       "Amber rain warning for Lakeside City on 21 March 2023",
				Date:              "2023-03-21",
				Severity:          "amber",
				LocationEntityIDs: []string{"ent_lakeside"},
				SourceID:          "src_nwb_bulletin",
			},
			{
				ID:                "fact_lmr_normal",
				SubjectEntityID:   "ent_lmr",
				Predicate:         "service_status",
				ObjectLabel:       "All lines run a normal weekday schedule on 21 March 2023 with no full network shutdown",
				Date:              "2023-03-21",
				LocationEntityIDs: []string{"ent_lakeside"},
				SourceID:          "src_lmr_status",
			},
			{
				ID:              "fact_nwb_role",
				SubjectEntityID: "ent_nwb",
				Predicate:       "remit",
				ObjectLabel:     "Northwind Weather Bureau does not decide or announce public transport operations",
				SourceID:        "src_nwb_faq",
			},
		},
	}
}

// Store builds a Store from ds, failing the test on integrity errors
func Store(t testing.TB, ds model.Dataset) *factstore.Store {
	t.Helper()
	store, err := factstore.New(ds)
	if err != nil {
		t.Fatalf("build fact store: %v", err)
	}
	return store
}

// Sample builds a Store from Dataset
func Sample(t testing.TB) *factstore.Store {
	t.Helper()
	return Store(t, Dataset())
}
