package assets

import (
	"fmt"
	"os"

	"CityVision/shared/mapdata"

	"gopkg.in/yaml.v3"
)

// ResourceDescriptor declara um recurso 3D do catálogo.
// Imutável após a carga; nomes são únicos dentro do catálogo.
type ResourceDescriptor struct {
	Name            string   `yaml:"name"`
	SourceRef       string   `yaml:"source"`
	Scale           float32  `yaml:"scale"`
	RotationDegrees float32  `yaml:"rotation"`
	ReceiveShadow   *bool    `yaml:"receive_shadow"`
	CastShadow      *bool    `yaml:"cast_shadow"`
	Movable         bool     `yaml:"movable"`
}

// Receives resolve o default de ReceiveShadow (true).
func (d *ResourceDescriptor) Receives() bool {
	return d.ReceiveShadow == nil || *d.ReceiveShadow
}

// Casts resolve o default de CastShadow (true).
func (d *ResourceDescriptor) Casts() bool {
	return d.CastShadow == nil || *d.CastShadow
}

// Catalog é o conjunto fixo de descritores declarado na inicialização.
type Catalog struct {
	entries []ResourceDescriptor
	byName  map[string]*ResourceDescriptor
}

type catalogFile struct {
	Resources []ResourceDescriptor `yaml:"resources"`
}

// NewCatalog valida e indexa uma lista de descritores.
func NewCatalog(entries []ResourceDescriptor) (*Catalog, error) {
	c := &Catalog{
		entries: entries,
		byName:  make(map[string]*ResourceDescriptor, len(entries)),
	}
	for i := range c.entries {
		d := &c.entries[i]
		if d.Name == "" {
			return nil, fmt.Errorf("descritor %d sem nome", i)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("nome duplicado no catálogo: %q", d.Name)
		}
		if d.Scale == 0 {
			d.Scale = 1
		}
		if d.SourceRef == "" {
			d.SourceRef = "assets/models/" + d.Name + ".glb"
		}
		c.byName[d.Name] = d
	}
	return c, nil
}

// LoadCatalog carrega o catálogo de um arquivo YAML.
// Se o arquivo não existir, cai no catálogo embutido (mesmo fallback silencioso
// que o resto do projeto usa para configs opcionais).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultCatalog(), nil
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", path, err)
	}
	return NewCatalog(file.Resources)
}

// Len retorna o número de recursos declarados.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get retorna o descritor de um nome, ou nil se ausente.
func (c *Catalog) Get(name string) *ResourceDescriptor {
	return c.byName[name]
}

// Each percorre os descritores na ordem de declaração.
func (c *Catalog) Each(fn func(ResourceDescriptor)) {
	for _, d := range c.entries {
		fn(d)
	}
}

// MovableNames retorna os nomes dos recursos marcados como móveis (veículos).
func (c *Catalog) MovableNames() []string {
	var names []string
	for _, d := range c.entries {
		if d.Movable {
			names = append(names, d.Name)
		}
	}
	return names
}

// DefaultCatalog retorna o catálogo embutido do CityVision: terreno, os 27 modelos
// de zona ({tipo}-{estilo}{nível}), canteiro de obras, as cinco peças de via e os
// veículos. Os nomes seguem a derivação usada pela MeshFactory.
func DefaultCatalog() *Catalog {
	var entries []ResourceDescriptor

	entries = append(entries, ResourceDescriptor{Name: "grass", Scale: 1})
	entries = append(entries, ResourceDescriptor{Name: "under-construction", Scale: 1})

	for _, zone := range []string{mapdata.ZoneResidential, mapdata.ZoneCommercial, mapdata.ZoneIndustrial} {
		for _, style := range []string{"A", "B", "C"} {
			for level := 1; level <= 3; level++ {
				entries = append(entries, ResourceDescriptor{
					Name:  fmt.Sprintf("%s-%s%d", zone, style, level),
					Scale: 1,
				})
			}
		}
	}

	for _, road := range []string{
		mapdata.RoadStraight, mapdata.RoadEnd, mapdata.RoadCorner,
		mapdata.RoadTee, mapdata.RoadIntersection,
	} {
		entries = append(entries, ResourceDescriptor{
			Name:  fmt.Sprintf("%s-paved", road),
			Scale: 1,
		})
	}

	for _, car := range []string{"car-sedan", "car-taxi", "car-van"} {
		entries = append(entries, ResourceDescriptor{Name: car, Scale: 1, Movable: true})
	}

	cat, err := NewCatalog(entries)
	if err != nil {
		// O catálogo embutido é estático; duplicatas aqui são bug de programação.
		panic(err)
	}
	return cat
}
