package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry é a malha compartilhada entre template e instâncias.
// Clones nunca copiam a geometria: apenas o Material é independente por instância.
// Handle guarda o recurso de GPU do backend (rl.Model); fica nil em modo headless.
type Geometry struct {
	Name     string
	Min, Max mgl32.Vec3 // bounds locais, antes da transformação do nó
	Handle   any
}

// UnitBox retorna a geometria de um cubo unitário centrado na origem do plano XZ.
// Serve de fallback quando o backend não pode carregar o arquivo do modelo.
func UnitBox(name string) *Geometry {
	return &Geometry{
		Name: name,
		Min:  mgl32.Vec3{-0.5, 0, -0.5},
		Max:  mgl32.Vec3{0.5, 1, 0.5},
	}
}

// Node é um nó do grafo de cena retido.
// Um template é um Node de posse do Loader; uma instância é um clone dele.
type Node struct {
	Name      string
	Position  mgl32.Vec3
	RotationY float32 // graus, em torno do eixo vertical
	Scale     mgl32.Vec3
	Visible   bool
	Pickable  bool

	CastShadow    bool
	ReceiveShadow bool

	Geometry *Geometry
	Material *Material

	Children []*Node
	parent   *Node
}

// NewNode cria um nó vazio visível com escala unitária.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   mgl32.Vec3{1, 1, 1},
		Visible: true,
	}
}

// Add anexa um filho ao nó.
func (n *Node) Add(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove desanexa um filho direto. Retorna true se o filho foi encontrado.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Clear remove todos os filhos.
func (n *Node) Clear() {
	for _, c := range n.Children {
		c.parent = nil
	}
	n.Children = nil
}

// Parent retorna o pai atual do nó (nil na raiz ou quando desanexado).
func (n *Node) Parent() *Node {
	return n.parent
}

// Clone copia o nó e toda a sua subárvore.
// A geometria é compartilhada com o original; materiais são clonados para que
// mutações na cópia nunca vazem para o template ou para outras instâncias.
func (n *Node) Clone() *Node {
	clone := &Node{
		Name:          n.Name,
		Position:      n.Position,
		RotationY:     n.RotationY,
		Scale:         n.Scale,
		Visible:       n.Visible,
		Pickable:      n.Pickable,
		CastShadow:    n.CastShadow,
		ReceiveShadow: n.ReceiveShadow,
		Geometry:      n.Geometry,
		Material:      n.Material.Clone(),
	}
	for _, c := range n.Children {
		clone.Add(c.Clone())
	}
	return clone
}

// Walk percorre a subárvore em pré-ordem. Retornar false em fn interrompe a descida
// naquele ramo (os irmãos continuam sendo visitados).
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// EachMaterial aplica fn a todo material da subárvore (partes da instância).
func (n *Node) EachMaterial(fn func(*Material)) {
	n.Walk(func(node *Node) bool {
		if node.Material != nil {
			fn(node.Material)
		}
		return true
	})
}

// LocalMatrix retorna a matriz de transformação local do nó.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	rotate := mgl32.HomogRotate3DY(mgl32.DegToRad(n.RotationY))
	scale := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// WorldMatrix acumula as transformações da raiz até o nó.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// WorldBounds retorna a AABB da geometria do nó em espaço de mundo.
// Os oito cantos da caixa local são transformados e reenvelopados; é conservador
// para rotações, o que basta para o picking por raio.
func (n *Node) WorldBounds() (mgl32.Vec3, mgl32.Vec3, bool) {
	if n.Geometry == nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}

	world := n.WorldMatrix()
	lo, hi := n.Geometry.Min, n.Geometry.Max

	min := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	max := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}

	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{
			pick(i&1 == 0, lo.X(), hi.X()),
			pick(i&2 == 0, lo.Y(), hi.Y()),
			pick(i&4 == 0, lo.Z(), hi.Z()),
		}
		p := mgl32.TransformCoordinate(corner, world)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
	}
	return min, max, true
}

func pick(first bool, a, b float32) float32 {
	if first {
		return a
	}
	return b
}
