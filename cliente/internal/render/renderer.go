package render

import (
	"fmt"
	"log"
	"sync"

	"CityVision/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer é o backend Raylib do grafo de cena retido.
// Também implementa a carga de modelos para a biblioteca de recursos
// (assets.ModelSource): cada arquivo vira um rl.Model registrado aqui e um
// nó-template com a AABB medida do modelo.
type Renderer struct {
	mu     sync.Mutex
	models map[string]rl.Model // por sourceRef, para descarga no shutdown

	selectionColor rl.Color
}

// NewRenderer cria um renderizador vazio.
func NewRenderer() *Renderer {
	return &Renderer{
		models:         make(map[string]rl.Model),
		selectionColor: rl.Yellow,
	}
}

// LoadModel carrega um arquivo de modelo e o converte em nó-template.
// Sem janela aberta (ou com arquivo ilegível) o template degrada para um cubo
// unitário: o catálogo continua utilizável e a cena mostra placeholders.
func (r *Renderer) LoadModel(sourceRef string) (*scene.Node, error) {
	node := scene.NewNode(sourceRef)
	node.Material = scene.NewMaterial(sourceRef)

	if !rl.IsWindowReady() {
		node.Geometry = scene.UnitBox(sourceRef)
		return node, nil
	}

	model := rl.LoadModel(sourceRef)
	if model.MeshCount == 0 {
		log.Printf("[Renderer] AVISO: modelo %q vazio ou ilegível; usando placeholder", sourceRef)
		node.Geometry = scene.UnitBox(sourceRef)
		return node, nil
	}

	box := rl.GetModelBoundingBox(model)
	node.Geometry = &scene.Geometry{
		Name:   sourceRef,
		Min:    mgl32.Vec3{box.Min.X, box.Min.Y, box.Min.Z},
		Max:    mgl32.Vec3{box.Max.X, box.Max.Y, box.Max.Z},
		Handle: model,
	}

	r.mu.Lock()
	r.models[sourceRef] = model
	r.mu.Unlock()

	return node, nil
}

// Draw percorre o grafo de cena e emite os draw calls.
// Opaco primeiro, transparentes num segundo passe com blend alpha para que as
// previews de veículos não escondam a geometria atrás delas.
func (r *Renderer) Draw(root *scene.Node, camera rl.Camera3D, showGrid bool) {
	if !rl.IsWindowReady() {
		return
	}

	rl.BeginMode3D(camera)

	var transparent []*scene.Node
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		switch n.Name {
		case "chao":
			r.drawGround(n)
			return true
		case "grade":
			if showGrid {
				r.drawGrid(n)
			}
			return true
		}
		if n.Geometry == nil {
			return true
		}
		if n.Material != nil && n.Material.Transparent {
			transparent = append(transparent, n)
			return true
		}
		r.drawNode(n)
		return true
	})

	rl.BeginBlendMode(rl.BlendAlpha)
	for _, n := range transparent {
		r.drawNode(n)
	}
	rl.EndBlendMode()

	rl.EndMode3D()
}

// DrawSelection desenha o contorno da instância selecionada por cima da cena.
func (r *Renderer) DrawSelection(node *scene.Node, camera rl.Camera3D) {
	if node == nil || !rl.IsWindowReady() {
		return
	}

	min, max, ok := worldBoundsOf(node)
	if !ok {
		return
	}

	center := min.Add(max).Mul(0.5)
	size := max.Sub(min)

	rl.BeginMode3D(camera)
	rl.DrawCubeWires(
		rl.Vector3{X: center.X(), Y: center.Y(), Z: center.Z()},
		size.X()*1.02, size.Y()*1.02, size.Z()*1.02,
		r.selectionColor,
	)
	rl.EndMode3D()
}

func (r *Renderer) drawNode(n *scene.Node) {
	model, ok := n.Geometry.Handle.(rl.Model)
	if !ok {
		// Placeholder headless: cubo sólido nas dimensões da AABB local
		r.drawPlaceholder(n)
		return
	}

	model.Transform = toRLMatrix(n.WorldMatrix())
	rl.DrawModel(model, rl.Vector3{}, 1.0, tintOf(n.Material))
}

func (r *Renderer) drawPlaceholder(n *scene.Node) {
	min, max, ok := n.WorldBounds()
	if !ok {
		return
	}
	center := min.Add(max).Mul(0.5)
	size := max.Sub(min)
	rl.DrawCube(
		rl.Vector3{X: center.X(), Y: center.Y(), Z: center.Z()},
		size.X(), size.Y(), size.Z(),
		tintOf(n.Material),
	)
}

func (r *Renderer) drawGround(n *scene.Node) {
	if n.Geometry == nil {
		return
	}
	min, max := n.Geometry.Min, n.Geometry.Max
	center := min.Add(max).Mul(0.5)
	size := max.Sub(min)
	rl.DrawCube(
		rl.Vector3{X: center.X(), Y: center.Y(), Z: center.Z()},
		size.X(), size.Y(), size.Z(),
		tintOf(n.Material),
	)
}

func (r *Renderer) drawGrid(n *scene.Node) {
	slices := int32(n.Scale.X())
	if slices < 1 {
		slices = 10
	}
	rl.DrawGrid(slices, 1.0)
}

// Unload descarrega todos os modelos de GPU registrados.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !rl.IsWindowReady() {
		r.models = make(map[string]rl.Model)
		return
	}
	for ref, model := range r.models {
		rl.UnloadModel(model)
		delete(r.models, ref)
	}
	log.Printf("[Renderer] Modelos descarregados")
}

// tintOf converte o material em cor de tint do Raylib.
// O destaque emissivo soma sobre a base, saturando: é barato e visualmente
// próximo do efeito de um canal emissivo de verdade.
func tintOf(m *scene.Material) rl.Color {
	if m == nil {
		return rl.White
	}

	c := m.Base
	if !m.Emissive.IsZero() {
		c = scene.Color{
			R: addChannel(c.R, m.Emissive.R/2),
			G: addChannel(c.G, m.Emissive.G/2),
			B: addChannel(c.B, m.Emissive.B/2),
			A: c.A,
		}
	}

	alpha := c.A
	if m.Transparent {
		alpha = uint8(m.Opacity * 255)
	}
	return rl.Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

func addChannel(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// worldBoundsOf envolve a subárvore inteira (instâncias compostas têm a
// geometria nas sub-partes).
func worldBoundsOf(root *scene.Node) (mgl32.Vec3, mgl32.Vec3, bool) {
	var min, max mgl32.Vec3
	found := false
	root.Walk(func(n *scene.Node) bool {
		lo, hi, ok := n.WorldBounds()
		if !ok {
			return true
		}
		if !found {
			min, max = lo, hi
			found = true
			return true
		}
		for axis := 0; axis < 3; axis++ {
			if lo[axis] < min[axis] {
				min[axis] = lo[axis]
			}
			if hi[axis] > max[axis] {
				max[axis] = hi[axis]
			}
		}
		return true
	})
	return min, max, found
}

// toRLMatrix converte uma matriz mgl32 (column-major) para o layout do Raylib.
func toRLMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// Describe monta a linha de inspeção da HUD para uma instância.
func Describe(node *scene.Node) string {
	if node == nil {
		return ""
	}
	return fmt.Sprintf("%s @ (%.0f, %.0f)", node.Name, node.Position.X(), node.Position.Z())
}
