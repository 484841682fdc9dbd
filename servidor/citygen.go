package main

import (
	"log"
	"math/rand"
	"sync"

	"CityVision/shared/mapdata"
	"CityVision/shared/protocol"
)

// Espaçamento da malha viária da cidade demo (uma via a cada N tiles).
const roadSpacing = 4

var (
	zoneTypes  = []string{mapdata.ZoneResidential, mapdata.ZoneCommercial, mapdata.ZoneIndustrial}
	zoneStyles = []string{"A", "B", "C"}
)

// CitySim mantém o estado autoritativo da cidade demo.
// O mundo do servidor é a fonte da verdade: snapshots e TILE_UPDATEs derivam
// sempre dele, nunca de estado avulso.
type CitySim struct {
	mu    sync.Mutex
	world *mapdata.World
	rng   *rand.Rand
	Name  string
}

// NewCitySim gera uma cidade demo determinística para a semente dada.
func NewCitySim(size int, seed int64) *CitySim {
	s := &CitySim{
		world: mapdata.NewWorld(size),
		rng:   rand.New(rand.NewSource(seed)),
		Name:  "Demo City",
	}
	s.generate()
	return s
}

func (s *CitySim) generate() {
	size := s.world.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if isRoadTile(x, y) {
				s.world.SetBuilding(x, y, s.roadAt(x, y, size))
				continue
			}
			// Nem todo lote vira zona: a cidade demo tem terrenos baldios
			if s.rng.Float32() < 0.25 {
				continue
			}
			s.world.SetBuilding(x, y, s.randomZone())
		}
	}
	log.Printf("[CitySim] Cidade gerada: grid %dx%d", size, size)
}

func isRoadTile(x, y int) bool {
	return x%roadSpacing == 0 || y%roadSpacing == 0
}

// roadAt classifica o tile de via pela vizinhança (reta, esquina, T, cruzamento).
func (s *CitySim) roadAt(x, y, size int) *mapdata.Road {
	inBounds := func(px, py int) bool {
		return px >= 0 && py >= 0 && px < size && py < size
	}
	n := inBounds(x, y-1) && isRoadTile(x, y-1)
	e := inBounds(x+1, y) && isRoadTile(x+1, y)
	so := inBounds(x, y+1) && isRoadTile(x, y+1)
	w := inBounds(x-1, y) && isRoadTile(x-1, y)

	roadType, rotation := classifyRoad(n, e, so, w)
	return &mapdata.Road{
		RoadType:    roadType,
		Style:       "paved",
		Rotation:    rotation,
		HideTerrain: true,
	}
}

// classifyRoad deriva o tipo e a rotação de uma via a partir das conexões
// norte/leste/sul/oeste.
func classifyRoad(n, e, s, w bool) (string, float32) {
	count := 0
	for _, c := range []bool{n, e, s, w} {
		if c {
			count++
		}
	}

	switch count {
	case 4:
		return mapdata.RoadIntersection, 0
	case 3:
		// Rotação aponta a abertura (o lado sem conexão)
		switch {
		case !n:
			return mapdata.RoadTee, 0
		case !e:
			return mapdata.RoadTee, 90
		case !s:
			return mapdata.RoadTee, 180
		default:
			return mapdata.RoadTee, 270
		}
	case 2:
		if n && s {
			return mapdata.RoadStraight, 0
		}
		if e && w {
			return mapdata.RoadStraight, 90
		}
		switch {
		case n && e:
			return mapdata.RoadCorner, 0
		case e && s:
			return mapdata.RoadCorner, 90
		case s && w:
			return mapdata.RoadCorner, 180
		default:
			return mapdata.RoadCorner, 270
		}
	case 1:
		switch {
		case n:
			return mapdata.RoadEnd, 0
		case e:
			return mapdata.RoadEnd, 90
		case s:
			return mapdata.RoadEnd, 180
		default:
			return mapdata.RoadEnd, 270
		}
	default:
		return mapdata.RoadStraight, 0
	}
}

func (s *CitySim) randomZone() *mapdata.Zone {
	developed := s.rng.Float32() < 0.7
	z := &mapdata.Zone{
		ZoneType:  zoneTypes[s.rng.Intn(len(zoneTypes))],
		Style:     zoneStyles[s.rng.Intn(len(zoneStyles))],
		Rotation:  float32(s.rng.Intn(4)) * 90,
		Developed: developed,
	}
	if developed {
		z.Level = 1 + s.rng.Intn(3)
		z.Abandoned = s.rng.Float32() < 0.08
	}
	return z
}

// Snapshot monta o estado completo do mundo para o ingresso de um cliente.
func (s *CitySim) Snapshot() *protocol.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.world.Size()
	snap := &protocol.Snapshot{WorldSize: size}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			tile := s.world.Tile(x, y)
			if tile == nil || !tile.HasBuilding() {
				continue
			}
			snap.Tiles = append(snap.Tiles, protocol.TileUpdate{
				X: x, Y: y,
				Building: protocol.FromBuilding(tile.Building),
			})
		}
	}
	return snap
}

// Step avança a simulação um passo: muta um lote aleatório e retorna o
// TILE_UPDATE correspondente, ou nil quando o sorteio cai em uma via.
func (s *CitySim) Step() *protocol.TileUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.world.Size()
	x, y := s.rng.Intn(size), s.rng.Intn(size)
	if isRoadTile(x, y) {
		return nil
	}

	tile := s.world.Tile(x, y)
	var next *mapdata.Zone

	switch cur := tile.Building.(type) {
	case nil:
		// Lote baldio: nasce uma zona sem desenvolvimento
		next = &mapdata.Zone{
			ZoneType: zoneTypes[s.rng.Intn(len(zoneTypes))],
			Style:    zoneStyles[s.rng.Intn(len(zoneStyles))],
			Rotation: float32(s.rng.Intn(4)) * 90,
		}
	case *mapdata.Zone:
		clone := *cur
		next = &clone
		switch {
		case !cur.Developed:
			next.Developed = true
			next.Level = 1
		case cur.Abandoned:
			next.Abandoned = false
		case s.rng.Float32() < 0.15:
			next.Abandoned = true
		case cur.Level < 3:
			next.Level = cur.Level + 1
		default:
			// Ciclo completo: demolição, o lote volta a ser baldio
			s.world.RemoveBuilding(x, y)
			return &protocol.TileUpdate{X: x, Y: y, Building: nil}
		}
	default:
		return nil
	}

	s.world.SetBuilding(x, y, next)
	return &protocol.TileUpdate{X: x, Y: y, Building: protocol.FromBuilding(next)}
}

// WorldSize retorna o lado do grid.
func (s *CitySim) WorldSize() int {
	return s.world.Size()
}
