package mapdata

import "testing"

func TestWorldRevisionAdvancesOnMutation(t *testing.T) {
	w := NewWorld(4)
	if w.Revision() != 0 {
		t.Fatalf("revisão inicial = %d, esperado 0", w.Revision())
	}

	w.SetBuilding(1, 2, &Road{RoadType: RoadStraight, Style: "paved"})
	if w.Revision() != 1 {
		t.Errorf("revisão após SetBuilding = %d, esperado 1", w.Revision())
	}

	w.RemoveBuilding(1, 2)
	if w.Revision() != 2 {
		t.Errorf("revisão após RemoveBuilding = %d, esperado 2", w.Revision())
	}
}

func TestSetBuildingMarksMeshOutOfDate(t *testing.T) {
	w := NewWorld(4)
	w.SetBuilding(0, 0, &Zone{ZoneType: ZoneResidential, Style: "A", Level: 1, Developed: true})

	tile := w.Tile(0, 0)
	if tile == nil || !tile.HasBuilding() {
		t.Fatal("tile (0,0) deveria ter construção")
	}
	if !tile.MeshOutOfDate {
		t.Error("SetBuilding deveria marcar MeshOutOfDate")
	}

	tile.ClearStale()
	if tile.MeshOutOfDate {
		t.Error("ClearStale não limpou a flag")
	}
}

func TestTileOutOfBounds(t *testing.T) {
	w := NewWorld(2)
	for _, c := range []struct{ x, y int }{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if w.Tile(c.x, c.y) != nil {
			t.Errorf("Tile(%d, %d) fora dos limites deveria ser nil", c.x, c.y)
		}
	}
	// Mutações fora dos limites não podem alterar a revisão
	w.SetBuilding(5, 5, &Road{RoadType: RoadEnd, Style: "paved"})
	if w.Revision() != 0 {
		t.Error("mutação fora dos limites não deveria avançar a revisão")
	}
}

func TestMarkStaleRequiresBuilding(t *testing.T) {
	w := NewWorld(2)
	w.MarkStale(0, 0)
	if w.Revision() != 0 {
		t.Error("MarkStale em tile vazio não deveria avançar a revisão")
	}
	if w.Tile(0, 0).MeshOutOfDate {
		t.Error("tile vazio não pode ficar marcado como stale")
	}
}

func TestRoadData(t *testing.T) {
	road := &Road{RoadType: RoadCorner, Style: "paved"}
	tile := &Tile{Building: road}
	if tile.RoadData() != road {
		t.Error("RoadData deveria retornar a via do tile")
	}
	tile.Building = &Zone{ZoneType: ZoneCommercial}
	if tile.RoadData() != nil {
		t.Error("RoadData de zona deveria ser nil")
	}
}
