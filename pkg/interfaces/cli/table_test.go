package cli

import (
	"strings"
	"testing"

	"github.com/partkeep/partkeep/pkg/domain/entities"
)

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	writeTable(&sb, [][]string{
		{"ID", "Name"},
		{"1", "DHT22"},
		{"12", "x"},
	})

	want := strings.Join([]string{
		"ID  Name",
		"--  -----",
		"1   DHT22",
		"12  x",
		"",
	}, "\n")
	if sb.String() != want {
		t.Errorf("Table output mismatch:\n got: %q\nwant: %q", sb.String(), want)
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var sb strings.Builder
	writeTable(&sb, nil)
	if got := sb.String(); got != "(no results)\n" {
		t.Errorf("Expected %q, got %q", "(no results)\n", got)
	}
}

func TestPartRows(t *testing.T) {
	rows := partRows([]entities.StoredPart{
		{
			ID: 3,
			Part: entities.Part{
				Category: "Sensor",
				Name:     "DHT22",
				Voltage:  entities.RangeSpec{Min: 3, Max: 5.5, Unit: "V"},
				Current:  entities.RangeSpec{Min: 0, Max: 0, Unit: "A"},
				Quantity: 4,
			},
		},
	})

	if len(rows) != 2 {
		t.Fatalf("Expected header plus one row, got %d rows", len(rows))
	}
	want := []string{"3", "Sensor", "DHT22", "3-5.5V", "0A", "4"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("Cell %d = %q, want %q", i, rows[1][i], cell)
		}
	}
}
