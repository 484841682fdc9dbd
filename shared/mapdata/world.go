package mapdata

import (
	"sync"

	"CityVision/shared/util"
)

// World é o modelo de mundo consumido pelo visualizador: um grid quadrado de tiles
// com um contador de revisão monotônico. O feed de rede muta o mundo (goroutine de
// leitura); o loop principal consulta a revisão e dispara um passe de sincronização
// quando ela avança. O lock é grosso, no estilo do restante dos stores do projeto.
type World struct {
	mu       sync.RWMutex
	size     int
	tiles    []*Tile
	revision int64
}

// NewWorld cria um mundo vazio de lado size.
func NewWorld(size int) *World {
	w := &World{
		size:  size,
		tiles: make([]*Tile, size*size),
	}
	for i := range w.tiles {
		c := util.CoordFromIndex(i, size)
		w.tiles[i] = &Tile{X: c.X, Y: c.Y}
	}
	return w
}

// Size retorna o lado do grid.
func (w *World) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.size
}

// Revision retorna a revisão atual do mundo. Cada mutação incrementa a revisão.
func (w *World) Revision() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.revision
}

// Tile retorna o tile na coordenada (x, y), ou nil fora dos limites.
func (w *World) Tile(x, y int) *Tile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c := util.NewGridCoord(x, y)
	if !c.InBounds(w.size) {
		return nil
	}
	return w.tiles[c.Index(w.size)]
}

// SetBuilding coloca (ou substitui) a construção de um tile e marca o mesh como
// desatualizado. É o caminho único de colocação: o sincronizador cria o primeiro
// mesh no próximo passe a partir da flag.
func (w *World) SetBuilding(x, y int, b Building) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := util.NewGridCoord(x, y)
	if !c.InBounds(w.size) {
		return
	}
	t := w.tiles[c.Index(w.size)]
	t.Building = b
	t.MeshOutOfDate = true
	w.revision++
}

// RemoveBuilding esvazia um tile. O mesh cacheado é removido no próximo passe.
func (w *World) RemoveBuilding(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := util.NewGridCoord(x, y)
	if !c.InBounds(w.size) {
		return
	}
	t := w.tiles[c.Index(w.size)]
	t.Building = nil
	t.MeshOutOfDate = false
	w.revision++
}

// MarkStale marca o mesh de um tile como desatualizado sem alterar os dados.
func (w *World) MarkStale(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := util.NewGridCoord(x, y)
	if !c.InBounds(w.size) {
		return
	}
	if w.tiles[c.Index(w.size)].Building == nil {
		return
	}
	w.tiles[c.Index(w.size)].MeshOutOfDate = true
	w.revision++
}

// Reset redimensiona e esvazia o mundo (usado ao receber um snapshot completo).
func (w *World) Reset(size int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = size
	w.tiles = make([]*Tile, size*size)
	for i := range w.tiles {
		c := util.CoordFromIndex(i, size)
		w.tiles[i] = &Tile{X: c.X, Y: c.Y}
	}
	w.revision++
}
