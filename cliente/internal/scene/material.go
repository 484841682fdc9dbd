package scene

// Color é uma cor RGBA de 8 bits por canal, independente do backend de render.
type Color struct {
	R, G, B, A uint8
}

var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
)

// IsZero indica ausência de cor (usado para "sem emissivo").
func (c Color) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

// Scale multiplica os canais RGB por fatores independentes, saturando em 255.
// É a operação usada pelo tint de zonas abandonadas: modifica a cor existente
// da instância em vez de trocar o material.
func (c Color) Scale(fr, fg, fb float32) Color {
	return Color{
		R: scaleChannel(c.R, fr),
		G: scaleChannel(c.G, fg),
		B: scaleChannel(c.B, fb),
		A: c.A,
	}
}

func scaleChannel(v uint8, f float32) uint8 {
	scaled := float32(v) * f
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}

// Material descreve o estado visual de uma parte de um nó.
// Instâncias clonadas de um mesmo template nunca compartilham Material: toda
// mutação (tint, transparência, destaque emissivo) é local à instância.
type Material struct {
	Name        string
	Base        Color
	Specular    Color
	Emissive    Color // cor zero = sem destaque
	Transparent bool
	Opacity     float32
}

// NewMaterial cria um material opaco branco.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Base:     White,
		Specular: Color{40, 40, 40, 255},
		Opacity:  1.0,
	}
}

// Clone retorna uma cópia independente do material.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

// SetTransparent liga/desliga a transparência, ajustando a opacidade padrão.
func (m *Material) SetTransparent(transparent bool) {
	m.Transparent = transparent
	if transparent && m.Opacity >= 1.0 {
		m.Opacity = 0.7
	}
	if !transparent {
		m.Opacity = 1.0
	}
}
