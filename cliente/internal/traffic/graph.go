package traffic

import (
	"log"
	"math"
	"math/rand"

	"CityVision/cliente/internal/meshing"
	"CityVision/cliente/internal/scene"
	"CityVision/shared/mapdata"
	"CityVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxVehicles  = 12
	vehicleSpeed = 1.5 // tiles por segundo
	spawnChance  = 0.05
)

// vehicle é um veículo em trânsito entre dois tiles de via.
type vehicle struct {
	node     *scene.Node
	from, to util.GridCoord
	progress float32
}

// Graph é o subgrafo de vias e agentes da cena.
// O sincronizador o alimenta via UpdateTile a cada mudança de via; o tick de
// render chama Advance uma vez por frame para mover os veículos.
type Graph struct {
	factory *meshing.Factory
	root    *scene.Node
	lanes   map[util.GridCoord]*mapdata.Road
	fleet   []*vehicle
	rng     *rand.Rand
}

// NewGraph cria o subgrafo de tráfego com um nó de cena próprio.
func NewGraph(factory *meshing.Factory) *Graph {
	return &Graph{
		factory: factory,
		root:    scene.NewNode("veiculos"),
		lanes:   make(map[util.GridCoord]*mapdata.Road),
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
}

// Root retorna o nó de cena sob o qual os veículos são desenhados.
func (g *Graph) Root() *scene.Node {
	return g.root
}

// UpdateTile registra ou remove a via de um tile.
// road nulo significa que o tile deixou de ser via: a pista sai do grafo e
// qualquer veículo que dependia dela é recolhido.
func (g *Graph) UpdateTile(x, y int, road *mapdata.Road) {
	c := util.NewGridCoord(x, y)
	if road == nil {
		delete(g.lanes, c)
		g.despawnAt(c)
		return
	}
	g.lanes[c] = road
}

// LaneCount retorna o número de tiles de via registrados.
func (g *Graph) LaneCount() int {
	return len(g.lanes)
}

// VehicleCount retorna o número de veículos ativos.
func (g *Graph) VehicleCount() int {
	return len(g.fleet)
}

// Reset descarta pistas e veículos (usado no rebuild completo da cena).
func (g *Graph) Reset() {
	g.lanes = make(map[util.GridCoord]*mapdata.Road)
	g.fleet = nil
	g.root.Clear()
}

// Advance move a frota um passo de tempo. Chamado uma vez por tick de render.
func (g *Graph) Advance(dt float32) {
	g.maybeSpawn()

	alive := g.fleet[:0]
	for _, v := range g.fleet {
		v.progress += vehicleSpeed * dt
		for v.progress >= 1 {
			next, ok := g.nextLane(v.to, v.from)
			if !ok {
				break
			}
			v.progress -= 1
			v.from, v.to = v.to, next
		}

		if v.progress >= 1 {
			// Sem pista adiante: veículo chega ao fim e é recolhido
			g.root.Remove(v.node)
			continue
		}

		v.node.Position = mgl32.Vec3{
			util.Lerp(float32(v.from.X), float32(v.to.X), v.progress),
			0,
			util.Lerp(float32(v.from.Y), float32(v.to.Y), v.progress),
		}
		// Rotação em torno de Y: 0 graus aponta para +X, crescendo contra o relógio
		dx := float64(v.to.X - v.from.X)
		dz := float64(v.to.Y - v.from.Y)
		v.node.RotationY = mgl32.RadToDeg(float32(math.Atan2(-dz, dx)))
		alive = append(alive, v)
	}
	g.fleet = alive
}

func (g *Graph) maybeSpawn() {
	if len(g.fleet) >= maxVehicles || len(g.lanes) < 2 {
		return
	}
	if g.rng.Float32() > spawnChance {
		return
	}

	start, ok := g.randomLane()
	if !ok {
		return
	}
	next, ok := g.nextLane(start, start)
	if !ok {
		return
	}

	node, err := g.factory.RandomVehicle()
	if err != nil {
		// Catálogo sem veículos: tráfego segue vazio, sem abortar o tick
		log.Printf("[Traffic] Sem veículo disponível: %v", err)
		return
	}
	node.Position = mgl32.Vec3{float32(start.X), 0, float32(start.Y)}
	g.root.Add(node)
	g.fleet = append(g.fleet, &vehicle{node: node, from: start, to: next})
}

// randomLane sorteia um tile de via registrado.
func (g *Graph) randomLane() (util.GridCoord, bool) {
	if len(g.lanes) == 0 {
		return util.GridCoord{}, false
	}
	n := g.rng.Intn(len(g.lanes))
	for c := range g.lanes {
		if n == 0 {
			return c, true
		}
		n--
	}
	return util.GridCoord{}, false
}

// nextLane escolhe aleatoriamente uma via vizinha de from, evitando voltar
// para prev quando há alternativa.
func (g *Graph) nextLane(from, prev util.GridCoord) (util.GridCoord, bool) {
	var options []util.GridCoord
	var fallback []util.GridCoord
	for _, n := range from.Neighbors4() {
		if _, ok := g.lanes[n]; !ok {
			continue
		}
		if n.Equals(prev) {
			fallback = append(fallback, n)
			continue
		}
		options = append(options, n)
	}
	if len(options) == 0 {
		options = fallback
	}
	if len(options) == 0 {
		return util.GridCoord{}, false
	}
	return options[g.rng.Intn(len(options))], true
}

// despawnAt recolhe veículos cujo trajeto atual toca a coordenada removida.
func (g *Graph) despawnAt(c util.GridCoord) {
	alive := g.fleet[:0]
	for _, v := range g.fleet {
		if v.from.Equals(c) || v.to.Equals(c) {
			g.root.Remove(v.node)
			continue
		}
		alive = append(alive, v)
	}
	g.fleet = alive
}
