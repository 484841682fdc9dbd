package picking

import (
	"math"

	"CityVision/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray é um raio em espaço de mundo.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalizado
}

// RayFromScreen converte uma posição de mouse em um raio de mundo.
// O eixo Y da tela cresce para baixo, então a coordenada é invertida antes
// da desprojeção. Os pontos near/far do NDC passam pela inversa de proj*view.
func RayFromScreen(mouseX, mouseY, width, height float32, view, proj mgl32.Mat4) Ray {
	ndcX := (2*mouseX)/width - 1
	ndcY := 1 - (2*mouseY)/height

	inv := proj.Mul4(view).Inv()

	near := unproject(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := unproject(mgl32.Vec3{ndcX, ndcY, 1}, inv)

	return Ray{
		Origin:    near,
		Direction: far.Sub(near).Normalize(),
	}
}

func unproject(ndc mgl32.Vec3, inv mgl32.Mat4) mgl32.Vec3 {
	p := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), ndc.Z(), 1})
	if p.W() != 0 {
		return mgl32.Vec3{p.X() / p.W(), p.Y() / p.W(), p.Z() / p.W()}
	}
	return mgl32.Vec3{p.X(), p.Y(), p.Z()}
}

// Picker resolve raios contra a subárvore dinâmica da cena.
// O alvo de um hit é sempre o nó marcado Pickable (a raiz da instância), nunca
// uma sub-parte clonada; subárvores invisíveis são podadas inteiras.
type Picker struct {
	root *scene.Node
}

// NewPicker cria um picker para a raiz dada.
func NewPicker(root *scene.Node) *Picker {
	return &Picker{root: root}
}

// Pick retorna a instância Pickable mais próxima atingida pelo raio, ou nil.
func (p *Picker) Pick(ray Ray) *scene.Node {
	var best *scene.Node
	bestDist := float32(math.Inf(1))

	p.root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if !n.Pickable {
			return true
		}

		// Raiz de instância: testa contra a AABB combinada da subárvore e não
		// desce mais — sub-partes não são alvos independentes
		if min, max, ok := subtreeBounds(n); ok {
			if dist, hit := intersectAABB(ray, min, max); hit && dist < bestDist {
				best = n
				bestDist = dist
			}
		}
		return false
	})

	return best
}

// PickScreen combina a construção do raio com a resolução do hit.
func (p *Picker) PickScreen(mouseX, mouseY, width, height float32, view, proj mgl32.Mat4) *scene.Node {
	return p.Pick(RayFromScreen(mouseX, mouseY, width, height, view, proj))
}

// subtreeBounds envolve as AABBs de mundo de todos os nós com geometria da subárvore.
func subtreeBounds(n *scene.Node) (mgl32.Vec3, mgl32.Vec3, bool) {
	min := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	max := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	found := false

	n.Walk(func(node *scene.Node) bool {
		if !node.Visible {
			return false
		}
		lo, hi, ok := node.WorldBounds()
		if !ok {
			return true
		}
		found = true
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

// intersectAABB faz o teste de slabs do raio contra a caixa.
// Retorna a distância de entrada (0 quando a origem está dentro da caixa).
func intersectAABB(r Ray, min, max mgl32.Vec3) (float32, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		d := r.Direction[axis]
		o := r.Origin[axis]

		if d == 0 {
			// Raio paralelo ao slab: fora dos planos significa miss garantido
			if o < min[axis] || o > max[axis] {
				return 0, false
			}
			continue
		}

		t1 := (min[axis] - o) / d
		t2 := (max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		// Caixa inteira atrás da origem do raio
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}
