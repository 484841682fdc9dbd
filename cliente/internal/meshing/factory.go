package meshing

import (
	"fmt"
	"log"
	"math/rand"

	"CityVision/cliente/internal/assets"
	"CityVision/cliente/internal/scene"
	"CityVision/shared/mapdata"
)

// Tint multiplicativo aplicado ao canal de cor de cada sub-parte de uma zona
// abandonada: dessatura sem trocar o material da instância.
var abandonedTint = [3]float32{0.55, 0.55, 0.60}

// Factory produz instâncias render-ready a partir dos templates da biblioteca.
// Cada instância tem material próprio: estado visual nunca vaza entre instâncias.
type Factory struct {
	lib *assets.Library
	rng *rand.Rand
}

// NewFactory cria a fábrica de meshes sobre uma biblioteca carregada.
func NewFactory(lib *assets.Library) *Factory {
	return &Factory{
		lib: lib,
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
}

// CloneInstance delega a clonagem à biblioteca (geometria compartilhada,
// materiais independentes, transparência por argumento).
func (f *Factory) CloneInstance(name string, transparent bool) (*scene.Node, error) {
	return f.lib.CloneInstance(name, transparent)
}

// TerrainInstance cria a instância de terreno de um tile.
func (f *Factory) TerrainInstance() (*scene.Node, error) {
	return f.lib.CloneInstance("grass", false)
}

// RandomVehicle escolhe uniformemente um template marcado como móvel e retorna
// um clone com suporte a transparência (veículos aparecem/somem em fade).
func (f *Factory) RandomVehicle() (*scene.Node, error) {
	movables := f.lib.Catalog().MovableNames()
	if len(movables) == 0 {
		return nil, fmt.Errorf("%w: nenhum recurso móvel no catálogo", assets.ErrResourceNotFound)
	}
	name := movables[f.rng.Intn(len(movables))]
	return f.lib.CloneInstance(name, true)
}

// ZoneModelName deriva o nome do modelo de uma zona: "{zoneType}-{style}{level}".
// Zonas ainda não desenvolvidas usam o canteiro de obras.
func ZoneModelName(z *mapdata.Zone) string {
	if !z.Developed {
		return "under-construction"
	}
	return fmt.Sprintf("%s-%s%d", z.ZoneType, z.Style, z.Level)
}

// RoadModelName deriva o nome do modelo de uma via: "{roadType}-{style}".
func RoadModelName(r *mapdata.Road) string {
	return fmt.Sprintf("%s-%s", r.RoadType, r.Style)
}

// BuildingInstance cria a instância de construção de um tile, com dispatch
// exaustivo sobre a variante. Tipos não reconhecidos geram aviso e mesh nulo
// (nil, nil): o passe de sincronização segue sem abortar e o slot fica vazio.
func (f *Factory) BuildingInstance(tile *mapdata.Tile) (*scene.Node, error) {
	switch b := tile.Building.(type) {
	case *mapdata.Zone:
		inst, err := f.lib.CloneInstance(ZoneModelName(b), false)
		if err != nil {
			return nil, err
		}
		inst.RotationY += b.Rotation
		if b.Abandoned {
			inst.EachMaterial(func(m *scene.Material) {
				m.Base = m.Base.Scale(abandonedTint[0], abandonedTint[1], abandonedTint[2])
			})
		}
		return inst, nil

	case *mapdata.Road:
		inst, err := f.lib.CloneInstance(RoadModelName(b), false)
		if err != nil {
			return nil, err
		}
		inst.RotationY += b.Rotation
		return inst, nil

	case nil:
		return nil, nil

	default:
		log.Printf("[MeshFactory] AVISO: tipo de construção não reconhecido em (%d, %d): %q",
			tile.X, tile.Y, b.Kind())
		return nil, nil
	}
}
