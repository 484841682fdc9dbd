package scenesync

import (
	"log"

	"CityVision/cliente/internal/meshing"
	"CityVision/cliente/internal/scene"
	"CityVision/shared/mapdata"
	"CityVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// RoadNetwork é o subgrafo de vias/agentes alimentado pelo sincronizador.
// Implementado por traffic.Graph; testes injetam fakes.
type RoadNetwork interface {
	UpdateTile(x, y int, road *mapdata.Road)
	Advance(dt float32)
	Reset()
	Root() *scene.Node
}

// Slot é o registro de meshes cacheados de uma coordenada do grid.
// Um Building nulo significa "nenhuma construção renderizada aqui", independente
// do que o modelo de mundo diga: a divergência só é resolvida no passe de sync.
type Slot struct {
	Terrain  *scene.Node
	Building *scene.Node
}

// Stats conta as mutações de cena do último passe de sincronização.
type Stats struct {
	Added   int
	Removed int
}

// Synchronizer é o dono do grafo de cena vivo.
//
// A cada revisão do modelo de mundo, ApplyChanges difere o arena de slots contra
// o estado dos tiles e emite o mínimo de operações add/remove/replace. Não é
// reentrante: o chamador serializa os passes (um por tick simulado).
type Synchronizer struct {
	factory *meshing.Factory
	roads   RoadNetwork

	root    *scene.Node // raiz completa da cena
	static  *scene.Node // chão, grade, iluminação
	dynamic *scene.Node // terreno e construções (alvo do picking)

	slots []Slot
	size  int

	running   bool
	lastStats Stats
}

// New cria o sincronizador. A cena fica vazia até Initialize.
func New(factory *meshing.Factory, roads RoadNetwork) *Synchronizer {
	s := &Synchronizer{
		factory: factory,
		roads:   roads,
		root:    scene.NewNode("cena"),
		static:  scene.NewNode("cenario"),
		dynamic: scene.NewNode("dinamico"),
	}
	s.root.Add(s.static)
	s.root.Add(s.dynamic)
	s.root.Add(roads.Root())
	return s
}

// Root retorna a raiz completa da cena (para o renderer).
func (s *Synchronizer) Root() *scene.Node { return s.root }

// DynamicRoot retorna a raiz dinâmica (alvo do picking).
func (s *Synchronizer) DynamicRoot() *scene.Node { return s.dynamic }

// Slot retorna o slot de uma coordenada (somente leitura; exposto para testes
// e para a HUD de inspeção).
func (s *Synchronizer) Slot(x, y int) *Slot {
	c := util.NewGridCoord(x, y)
	if !c.InBounds(s.size) {
		return nil
	}
	return &s.slots[c.Index(s.size)]
}

// LastStats retorna os contadores do último ApplyChanges.
func (s *Synchronizer) LastStats() Stats { return s.lastStats }

// Initialize faz o rebuild completo: limpa a cena, recoloca o cenário estático
// dimensionado ao mundo e cria o terreno de cada tile. Construções NÃO são
// criadas aqui — os slots começam vazios e o primeiro ApplyChanges as constrói
// a partir das flags de mesh desatualizado.
func (s *Synchronizer) Initialize(world *mapdata.World) error {
	size := world.Size()
	s.size = size
	s.slots = make([]Slot, size*size)

	s.static.Clear()
	s.dynamic.Clear()
	s.roads.Reset()

	s.buildStaticScenery(size)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			terrain, err := s.factory.TerrainInstance()
			if err != nil {
				return err
			}
			terrain.Position = mgl32.Vec3{float32(x), 0, float32(y)}
			terrain.Pickable = true
			s.dynamic.Add(terrain)
			s.slots[util.NewGridCoord(x, y).Index(size)].Terrain = terrain
		}
	}

	log.Printf("[SceneSync] Cena inicializada: %dx%d tiles, %d nós dinâmicos",
		size, size, len(s.dynamic.Children))
	return nil
}

// buildStaticScenery monta chão, grade e os marcadores de iluminação.
// Iluminação é configuração fixa: o renderer lê os nós pelo nome.
func (s *Synchronizer) buildStaticScenery(size int) {
	half := float32(size) / 2

	ground := scene.NewNode("chao")
	ground.Geometry = &scene.Geometry{
		Name: "chao",
		Min:  mgl32.Vec3{-0.5, -0.1, -0.5},
		Max:  mgl32.Vec3{float32(size) - 0.5, 0, float32(size) - 0.5},
	}
	ground.Material = scene.NewMaterial("chao")
	ground.Material.Base = scene.Color{R: 90, G: 120, B: 70, A: 255}
	s.static.Add(ground)

	grid := scene.NewNode("grade")
	grid.Position = mgl32.Vec3{half - 0.5, 0.01, half - 0.5}
	grid.Scale = mgl32.Vec3{float32(size), 1, float32(size)}
	s.static.Add(grid)

	sun := scene.NewNode("luz-direcional")
	sun.Position = mgl32.Vec3{half + float32(size), float32(size) * 2, half - float32(size)}
	s.static.Add(sun)

	ambient := scene.NewNode("luz-ambiente")
	s.static.Add(ambient)
}

// ApplyChanges roda o diff incremental: uma passada pelo grid, mutando apenas o
// que mudou. Tiles sem flag e slots já coerentes não sofrem nenhuma operação —
// no máximo um par remove/add por tile por chamada.
func (s *Synchronizer) ApplyChanges(world *mapdata.World) {
	if world.Size() != s.size {
		log.Printf("[SceneSync] Tamanho do mundo mudou (%d -> %d); rebuild completo", s.size, world.Size())
		if err := s.Initialize(world); err != nil {
			log.Printf("[SceneSync] ERRO no rebuild: %v", err)
			return
		}
	}

	stats := Stats{}

	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			tile := world.Tile(x, y)
			if tile == nil {
				continue
			}
			slot := &s.slots[util.NewGridCoord(x, y).Index(s.size)]

			// Visibilidade do terreno é uma escrita de flag, nunca rebuild de mesh
			if slot.Terrain != nil {
				hidden := tile.HasBuilding() && tile.Building.HidesTerrain()
				slot.Terrain.Visible = !hidden
			}

			switch {
			case !tile.HasBuilding() && slot.Building != nil:
				// Construção saiu do mundo: remove o mesh cacheado e avisa o tráfego
				s.dynamic.Remove(slot.Building)
				slot.Building = nil
				stats.Removed++
				s.roads.UpdateTile(x, y, nil)

			case tile.HasBuilding() && tile.MeshOutOfDate:
				// Mesh desatualizado: troca (ou cria, se o slot estava vazio — é o
				// caminho de primeira colocação combinado com o feed)
				if slot.Building != nil {
					s.dynamic.Remove(slot.Building)
					slot.Building = nil
					stats.Removed++
				}
				s.rebuildTile(tile, slot, &stats)
				tile.ClearStale()
			}
		}
	}

	s.lastStats = stats
	if stats.Added > 0 || stats.Removed > 0 {
		log.Printf("[SceneSync] Passe aplicado: +%d/-%d meshes", stats.Added, stats.Removed)
	}
}

func (s *Synchronizer) rebuildTile(tile *mapdata.Tile, slot *Slot, stats *Stats) {
	inst, err := s.factory.BuildingInstance(tile)
	if err != nil {
		// Recurso ausente corrompe só este tile; o passe continua e o slot fica vazio
		log.Printf("[SceneSync] ERRO ao construir mesh de (%d, %d): %v", tile.X, tile.Y, err)
		return
	}
	if inst != nil {
		inst.Position = mgl32.Vec3{float32(tile.X), 0, float32(tile.Y)}
		inst.Pickable = true
		s.dynamic.Add(inst)
		slot.Building = inst
		stats.Added++
	}

	if road := tile.RoadData(); road != nil {
		s.roads.UpdateTile(tile.X, tile.Y, road)
	}
}

// Start liga o tick de render. Imediato, sem estado em trânsito para desfazer.
func (s *Synchronizer) Start() { s.running = true }

// Stop desliga o tick de render.
func (s *Synchronizer) Stop() { s.running = false }

// Running indica se o tick está ativo.
func (s *Synchronizer) Running() bool { return s.running }

// Tick avança o estado por-frame (movimento do tráfego). O frame de render em
// si é emitido pelo host a partir do callback de apresentação de quadros.
func (s *Synchronizer) Tick(dt float32) {
	if !s.running {
		return
	}
	s.roads.Advance(dt)
}
