package services

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/partkeep/partkeep/pkg/domain/entities"
	"github.com/partkeep/partkeep/pkg/domain/repositories"
	"github.com/partkeep/partkeep/pkg/infrastructure/repositories/jsonfile"
	"github.com/partkeep/partkeep/pkg/infrastructure/repositories/memory"
)

func newTestService(t *testing.T) *InventoryService {
	t.Helper()
	return NewInventoryService(memory.NewPartRepository(), nil)
}

func sensorPart() entities.Part {
	return entities.Part{
		Category: "Sensor",
		Name:     "DHT22",
		Voltage:  entities.RangeSpec{Min: 3, Max: 5.5, Unit: "V"},
		Current:  entities.RangeSpec{Min: 0, Max: 0.0025, Unit: "A"},
		Quantity: 4,
		Notes:    "outdoor rated",
	}
}

func resistorPart() entities.Part {
	return entities.Part{
		Category: "Resistor",
		Name:     "10k",
		Voltage:  entities.RangeSpec{Min: 0, Max: 0, Unit: "V"},
		Current:  entities.RangeSpec{Min: 0, Max: 0, Unit: "A"},
		Quantity: 5,
	}
}

func TestInventoryService_AddAssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t)

	res1, err := svc.Add(sensorPart())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if res1.ID != 1 || res1.Merged {
		t.Errorf("Expected fresh id 1, got %+v", res1)
	}

	res2, err := svc.Add(resistorPart())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if res2.ID != 2 || res2.Merged {
		t.Errorf("Expected fresh id 2, got %+v", res2)
	}
}

func TestInventoryService_AddMergesDuplicates(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add(sensorPart()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Same physical part: different case, padding, swapped range bounds,
	// different quantity and notes.
	dup := entities.Part{
		Category: "  sensor ",
		Name:     "dht22",
		Voltage:  entities.RangeSpec{Min: 5.5, Max: 3, Unit: " v "},
		Current:  entities.RangeSpec{Min: 0.0025, Max: 0, Unit: "A"},
		Quantity: 3,
		Notes:    "from the new batch",
	}
	res, err := svc.Add(dup)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !res.Merged {
		t.Fatalf("Expected a merge, got %+v", res)
	}
	if res.ID != 1 {
		t.Errorf("Expected merge into id 1, got %d", res.ID)
	}
	if res.Quantity != 7 {
		t.Errorf("Expected merged quantity 7, got %d", res.Quantity)
	}

	items, err := svc.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Merge created a parallel row: %d items", len(items))
	}
}

func TestInventoryService_AddRejectsInvalidPart(t *testing.T) {
	svc := newTestService(t)

	bad := sensorPart()
	bad.Category = "  "
	_, err := svc.Add(bad)
	if err == nil {
		t.Fatalf("Expected validation failure")
	}
	if !entities.IsValidation(err) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}

func TestInventoryService_ListFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())
	mustAdd(t, svc, resistorPart())

	all, err := svc.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(all))
	}

	sensors, err := svc.List("sensor")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sensors) != 1 || sensors[0].Part.Name != "DHT22" {
		t.Errorf("Case-insensitive category filter failed: %+v", sensors)
	}

	none, err := svc.List("Capacitor")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no matches, got %d", len(none))
	}
}

func TestInventoryService_Search(t *testing.T) {
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())
	mustAdd(t, svc, resistorPart())

	tests := []struct {
		name      string
		keywords  []string
		category  string
		wantNames []string
	}{
		{"single keyword on name", []string{"dht"}, "", []string{"DHT22"}},
		{"keyword on notes", []string{"outdoor"}, "", []string{"DHT22"}},
		{"keyword on formatted voltage", []string{"3-5.5v"}, "", []string{"DHT22"}},
		{"all keywords must match", []string{"dht", "resistor"}, "", nil},
		{"several matching keywords", []string{"dht", "outdoor"}, "", []string{"DHT22"}},
		{"category narrows keywords", []string{"0v"}, "Resistor", []string{"10k"}},
		{"empty keywords match all", nil, "", []string{"DHT22", "10k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.Search(tt.keywords, tt.category)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(items) != len(tt.wantNames) {
				t.Fatalf("Expected %d matches, got %d", len(tt.wantNames), len(items))
			}
			for i, want := range tt.wantNames {
				if items[i].Part.Name != want {
					t.Errorf("Match %d = %q, want %q", i, items[i].Part.Name, want)
				}
			}
		})
	}
}

func TestInventoryService_Get(t *testing.T) {
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())

	sp, found, err := svc.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || sp.Part.Name != "DHT22" {
		t.Errorf("Expected to find DHT22, got %+v (found=%v)", sp, found)
	}

	_, found, err = svc.Get(42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Errorf("Expected id 42 to be a normal not-found result")
	}
}

func TestInventoryService_RemoveAndDecrement(t *testing.T) {
	t.Run("remove deletes outright", func(t *testing.T) {
		svc := newTestService(t)
		mustAdd(t, svc, sensorPart())

		res, err := svc.Remove(1)
		if err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if res.Outcome != RemoveDeleted {
			t.Errorf("Expected RemoveDeleted, got %v", res.Outcome)
		}
		if _, found, _ := svc.Get(1); found {
			t.Errorf("Record still present after Remove")
		}
	})

	t.Run("remove unknown id", func(t *testing.T) {
		svc := newTestService(t)
		res, err := svc.Remove(9)
		if err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if res.Outcome != RemoveNotFound {
			t.Errorf("Expected RemoveNotFound, got %v", res.Outcome)
		}
	})

	t.Run("decrement keeps positive remainder", func(t *testing.T) {
		svc := newTestService(t)
		mustAdd(t, svc, sensorPart()) // quantity 4

		res, err := svc.Decrement(1, 3)
		if err != nil {
			t.Fatalf("Decrement failed: %v", err)
		}
		if res.Outcome != RemoveDecremented || res.Quantity != 1 {
			t.Errorf("Expected quantity 1 remaining, got %+v", res)
		}
	})

	t.Run("decrement to exactly zero deletes", func(t *testing.T) {
		svc := newTestService(t)
		mustAdd(t, svc, sensorPart())

		res, err := svc.Decrement(1, 4)
		if err != nil {
			t.Fatalf("Decrement failed: %v", err)
		}
		if res.Outcome != RemoveDeleted {
			t.Errorf("Expected RemoveDeleted at zero, got %v", res.Outcome)
		}
	})

	t.Run("decrement past zero deletes", func(t *testing.T) {
		svc := newTestService(t)
		mustAdd(t, svc, sensorPart())

		res, err := svc.Decrement(1, 99)
		if err != nil {
			t.Fatalf("Decrement failed: %v", err)
		}
		if res.Outcome != RemoveDeleted {
			t.Errorf("Expected RemoveDeleted past zero, got %v", res.Outcome)
		}
	})

	t.Run("non-positive decrement rejected", func(t *testing.T) {
		svc := newTestService(t)
		mustAdd(t, svc, sensorPart())

		for _, n := range []int64{0, -2} {
			_, err := svc.Decrement(1, n)
			if err == nil {
				t.Fatalf("Decrement(%d) should have failed", n)
			}
			if !entities.IsValidation(err) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		}
	})
}

func TestInventoryService_Update(t *testing.T) {
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())

	replacement := sensorPart()
	replacement.Name = "BME280"
	replacement.Quantity = 9
	replacement.Notes = ""

	found, err := svc.Update(1, replacement)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatalf("Expected id 1 to exist")
	}

	sp, _, err := svc.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sp.ID != 1 {
		t.Errorf("Update changed the id: %d", sp.ID)
	}
	if sp.Part.Name != "BME280" || sp.Part.Quantity != 9 || sp.Part.Notes != "" {
		t.Errorf("Fields not overwritten: %+v", sp.Part)
	}
}

func TestInventoryService_UpdateDoesNotMerge(t *testing.T) {
	// Editing a record into a duplicate of another keeps both rows; only
	// Add merges.
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())
	mustAdd(t, svc, resistorPart())

	found, err := svc.Update(2, sensorPart())
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatalf("Expected id 2 to exist")
	}

	items, err := svc.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Edit collapsed rows: %d items", len(items))
	}
}

func TestInventoryService_UpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	found, err := svc.Update(5, sensorPart())
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if found {
		t.Errorf("Expected not-found for id 5")
	}
}

func TestInventoryService_SkipsMalformedRecords(t *testing.T) {
	repo := memory.NewPartRepository()
	db := repositories.NewDatabase()

	var broken repositories.Record
	if err := json.Unmarshal([]byte(`{"mystery": true}`), &broken); err != nil {
		t.Fatalf("Failed to build raw record: %v", err)
	}
	db.Records = append(db.Records, broken)

	good, err := repositories.NewRecord(1, sensorPart())
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	db.Records = append(db.Records, good)
	if err := repo.Save(db); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	svc := NewInventoryService(repo, nil)

	items, err := svc.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected the malformed record to be skipped, got %d items", len(items))
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected the malformed record to be counted, got %d", count)
	}

	// A mutating operation must not drop the opaque record.
	if _, err := svc.Add(resistorPart()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	count, err = svc.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Malformed record lost by a save: %d records", count)
	}
}

func TestInventoryService_Categories(t *testing.T) {
	svc := newTestService(t)
	mustAdd(t, svc, sensorPart())
	mustAdd(t, svc, resistorPart())

	another := sensorPart()
	another.Name = "BME280"
	mustAdd(t, svc, another)

	cats, err := svc.Categories()
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	want := []string{"Resistor", "Sensor"}
	if len(cats) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories = %v, want %v", cats, want)
		}
	}
}

// End-to-end over the real file store: add, merge, consume to zero.
func TestInventoryService_EndToEnd(t *testing.T) {
	store := jsonfile.New(filepath.Join(t.TempDir(), "inventory.json"), nil)
	svc := NewInventoryService(store, nil)

	res, err := svc.Add(resistorPart()) // qty 5
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if res.ID != 1 || res.Quantity != 5 || res.Merged {
		t.Fatalf("Expected id 1 with quantity 5, got %+v", res)
	}

	again := resistorPart()
	again.Quantity = 3
	res, err = svc.Add(again)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !res.Merged || res.ID != 1 || res.Quantity != 8 {
		t.Fatalf("Expected merge into id 1 with quantity 8, got %+v", res)
	}
	if _, found, _ := svc.Get(2); found {
		t.Fatalf("No id 2 should exist after a merge")
	}

	rm, err := svc.Decrement(1, 8)
	if err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}
	if rm.Outcome != RemoveDeleted {
		t.Fatalf("Expected deletion when quantity hits 0, got %v", rm.Outcome)
	}

	_, found, err := svc.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Errorf("Expected not-found after full removal")
	}
}

func mustAdd(t *testing.T, svc *InventoryService, p entities.Part) {
	t.Helper()
	if _, err := svc.Add(p); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
}
