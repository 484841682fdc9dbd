package scenesync

import (
	"fmt"
	"testing"
	"time"

	"CityVision/cliente/internal/assets"
	"CityVision/cliente/internal/meshing"
	"CityVision/cliente/internal/scene"
	"CityVision/shared/mapdata"
)

// fakeRoads grava as notificações recebidas do sincronizador.
type fakeRoads struct {
	root     *scene.Node
	calls    []string
	advanced int
	resets   int
}

func newFakeRoads() *fakeRoads {
	return &fakeRoads{root: scene.NewNode("veiculos")}
}

func (f *fakeRoads) UpdateTile(x, y int, road *mapdata.Road) {
	if road == nil {
		f.calls = append(f.calls, fmt.Sprintf("remove(%d,%d)", x, y))
		return
	}
	f.calls = append(f.calls, fmt.Sprintf("road(%d,%d,%s)", x, y, road.RoadType))
}

func (f *fakeRoads) Advance(dt float32)  { f.advanced++ }
func (f *fakeRoads) Reset()              { f.resets++ }
func (f *fakeRoads) Root() *scene.Node   { return f.root }

func readyFactory(t *testing.T) *meshing.Factory {
	t.Helper()
	source := func(ref string) (*scene.Node, error) {
		n := scene.NewNode(ref)
		n.Geometry = scene.UnitBox(ref)
		n.Material = scene.NewMaterial(ref)
		return n, nil
	}
	lib := assets.NewLibrary(assets.DefaultCatalog(), source, nil)
	lib.Begin()
	deadline := time.Now().Add(2 * time.Second)
	for !lib.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("biblioteca não carregou")
		}
		lib.Pump()
		time.Sleep(time.Millisecond)
	}
	return meshing.NewFactory(lib)
}

func newSyncWorld(t *testing.T, size int) (*Synchronizer, *fakeRoads, *mapdata.World) {
	t.Helper()
	roads := newFakeRoads()
	s := New(readyFactory(t), roads)
	w := mapdata.NewWorld(size)
	if err := s.Initialize(w); err != nil {
		t.Fatalf("Initialize falhou: %v", err)
	}
	return s, roads, w
}

func TestInitializeCreatesTerrainOnly(t *testing.T) {
	s, roads, _ := newSyncWorld(t, 3)

	if got := len(s.DynamicRoot().Children); got != 9 {
		t.Errorf("nós dinâmicos = %d, esperado 9 terrenos", got)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			slot := s.Slot(x, y)
			if slot.Terrain == nil {
				t.Errorf("slot (%d,%d) sem terreno", x, y)
			}
			if slot.Building != nil {
				t.Errorf("slot (%d,%d) não deveria ter construção eager", x, y)
			}
		}
	}
	if roads.resets != 1 {
		t.Errorf("subgrafo de vias deveria ser resetado uma vez, foi %d", roads.resets)
	}
	if s.Slot(3, 0) != nil || s.Slot(-1, 0) != nil {
		t.Error("Slot fora dos limites deveria ser nil")
	}
}

func TestApplyChangesBuildsFirstMeshFromStaleFlag(t *testing.T) {
	s, roads, w := newSyncWorld(t, 2)

	w.SetBuilding(0, 0, &mapdata.Road{RoadType: mapdata.RoadStraight, Style: "paved"})
	s.ApplyChanges(w)

	slot := s.Slot(0, 0)
	if slot.Building == nil || slot.Building.Name != "straight-paved" {
		t.Fatalf("primeira colocação não criou o mesh: %+v", slot.Building)
	}
	if w.Tile(0, 0).MeshOutOfDate {
		t.Error("flag de stale não foi limpa")
	}
	if stats := s.LastStats(); stats.Added != 1 || stats.Removed != 0 {
		t.Errorf("stats = %+v, esperado só um add", stats)
	}
	if len(roads.calls) != 1 || roads.calls[0] != "road(0,0,straight)" {
		t.Errorf("notificações de via = %v", roads.calls)
	}
}

func TestApplyChangesIdempotence(t *testing.T) {
	s, _, w := newSyncWorld(t, 4)

	w.SetBuilding(1, 1, &mapdata.Zone{ZoneType: mapdata.ZoneResidential, Style: "A", Level: 1, Developed: true})
	w.SetBuilding(2, 3, &mapdata.Road{RoadType: mapdata.RoadCorner, Style: "paved"})
	s.ApplyChanges(w)

	// Segundo passe sem mudança de mundo: zero mutações de cena
	s.ApplyChanges(w)
	if stats := s.LastStats(); stats.Added != 0 || stats.Removed != 0 {
		t.Errorf("segundo passe mutou a cena: %+v", stats)
	}
}

func TestApplyChangesDiffMinimality(t *testing.T) {
	s, roads, w := newSyncWorld(t, 3)

	for x := 0; x < 3; x++ {
		w.SetBuilding(x, 0, &mapdata.Zone{ZoneType: mapdata.ZoneCommercial, Style: "B", Level: 1, Developed: true})
	}
	s.ApplyChanges(w)

	before := [3]*scene.Node{}
	for x := 0; x < 3; x++ {
		before[x] = s.Slot(x, 0).Building
	}

	// Uma única mudança: tile (1,0) fica stale
	w.MarkStale(1, 0)
	roads.calls = nil
	s.ApplyChanges(w)

	if stats := s.LastStats(); stats.Added != 1 || stats.Removed != 1 {
		t.Errorf("stats = %+v, esperado exatamente um par remove/add", stats)
	}
	if s.Slot(0, 0).Building != before[0] || s.Slot(2, 0).Building != before[2] {
		t.Error("instâncias de tiles não afetados foram tocadas")
	}
	if s.Slot(1, 0).Building == before[1] {
		t.Error("tile stale deveria ter instância nova")
	}
}

func TestApplyChangesRemovesBuilding(t *testing.T) {
	s, roads, w := newSyncWorld(t, 2)

	w.SetBuilding(1, 1, &mapdata.Road{RoadType: mapdata.RoadEnd, Style: "paved"})
	s.ApplyChanges(w)
	if s.Slot(1, 1).Building == nil {
		t.Fatal("setup falhou: via não foi criada")
	}

	removed := s.Slot(1, 1).Building
	roads.calls = nil
	w.RemoveBuilding(1, 1)
	s.ApplyChanges(w)

	if s.Slot(1, 1).Building != nil {
		t.Error("slot deveria ficar vazio após remoção")
	}
	if removed.Parent() != nil {
		t.Error("instância removida ainda está na cena")
	}
	if len(roads.calls) != 1 || roads.calls[0] != "remove(1,1)" {
		t.Errorf("subgrafo de vias não foi notificado da remoção: %v", roads.calls)
	}
	if stats := s.LastStats(); stats.Removed != 1 || stats.Added != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTerrainVisibilityIsFlagWriteOnly(t *testing.T) {
	s, _, w := newSyncWorld(t, 2)

	terrain := s.Slot(0, 0).Terrain
	w.SetBuilding(0, 0, &mapdata.Road{RoadType: mapdata.RoadStraight, Style: "paved", HideTerrain: true})
	s.ApplyChanges(w)

	if s.Slot(0, 0).Terrain != terrain {
		t.Error("terreno foi reconstruído; deveria ser só escrita de flag")
	}
	if terrain.Visible {
		t.Error("terreno sob via com hide_terrain deveria ficar oculto")
	}

	w.RemoveBuilding(0, 0)
	s.ApplyChanges(w)
	if !terrain.Visible {
		t.Error("terreno deveria voltar a ser visível sem construção")
	}
}

func TestUnrecognizedBuildingLeavesSlotEmpty(t *testing.T) {
	s, _, w := newSyncWorld(t, 2)

	w.SetBuilding(0, 1, &mapdata.Unknown{RawKind: "teleporte"})
	s.ApplyChanges(w)

	if s.Slot(0, 1).Building != nil {
		t.Error("tipo não reconhecido deveria deixar o slot vazio")
	}
	if w.Tile(0, 1).MeshOutOfDate {
		t.Error("flag deveria ser limpa para não reprocessar a cada passe")
	}
	// Os demais tiles seguem intactos — o passe nunca aborta
	if stats := s.LastStats(); stats.Added != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEndToEndRoadStaleRebuild(t *testing.T) {
	s, roads, w := newSyncWorld(t, 2)

	// Tile (0,0) tem via marcada stale com um mesh antigo já cacheado
	w.SetBuilding(0, 0, &mapdata.Road{RoadType: mapdata.RoadStraight, Style: "paved"})
	s.ApplyChanges(w)
	old := s.Slot(0, 0).Building

	w.SetBuilding(0, 0, &mapdata.Road{RoadType: mapdata.RoadTee, Style: "paved"})
	roads.calls = nil
	s.ApplyChanges(w)

	got := s.Slot(0, 0).Building
	if got == old || got == nil {
		t.Fatal("mesh antigo não foi substituído")
	}
	if got.Name != "tee-paved" {
		t.Errorf("mesh novo = %q, esperado tee-paved", got.Name)
	}
	if old.Parent() != nil {
		t.Error("mesh antigo continua na cena")
	}
	if w.Tile(0, 0).MeshOutOfDate {
		t.Error("flag de stale não foi limpa")
	}
	if len(roads.calls) != 1 || roads.calls[0] != "road(0,0,tee)" {
		t.Errorf("updateTile esperado com a via nova, veio %v", roads.calls)
	}
}

func TestTickOnlyWhenRunning(t *testing.T) {
	s, roads, _ := newSyncWorld(t, 2)

	s.Tick(0.016)
	if roads.advanced != 0 {
		t.Error("Tick parado não deveria avançar o tráfego")
	}

	s.Start()
	if !s.Running() {
		t.Error("Start não ligou o tick")
	}
	s.Tick(0.016)
	s.Tick(0.016)
	if roads.advanced != 2 {
		t.Errorf("Advance chamado %d vezes, esperado 2", roads.advanced)
	}

	s.Stop()
	s.Tick(0.016)
	if roads.advanced != 2 {
		t.Error("Tick após Stop ainda avançou o tráfego")
	}
}
