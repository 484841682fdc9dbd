package picking

import "CityVision/cliente/internal/scene"

// Highlighter aplica destaque emissivo às instâncias sob o cursor (hover) e
// selecionada (active). Os dois estados são independentes: limpar um nunca
// limpa o outro, e quando ambos apontam para a mesma instância, a cor de
// active tem precedência. Só o highlighter escreve no canal emissivo.
type Highlighter struct {
	hoverColor  scene.Color
	activeColor scene.Color

	hover  *scene.Node
	active *scene.Node
}

// NewHighlighter cria um highlighter com as cores de destaque dadas.
func NewHighlighter(hover, active scene.Color) *Highlighter {
	return &Highlighter{hoverColor: hover, activeColor: active}
}

// Hover retorna a instância atualmente sob o cursor (nil se nenhuma).
func (h *Highlighter) Hover() *scene.Node { return h.hover }

// Active retorna a instância atualmente selecionada (nil se nenhuma).
func (h *Highlighter) Active() *scene.Node { return h.active }

// SetHover atualiza a instância sob o cursor. Passar nil limpa o hover.
// Idempotente: repetir o mesmo nó não faz nenhuma escrita.
func (h *Highlighter) SetHover(node *scene.Node) {
	if node == h.hover {
		return
	}

	if h.hover != nil && h.hover != h.active {
		clearEmissive(h.hover)
	}
	h.hover = node

	// Precedência: uma instância ativa mantém a cor de active mesmo sob o cursor
	if h.hover != nil && h.hover != h.active {
		applyEmissive(h.hover, h.hoverColor)
	}
}

// SetActive atualiza a instância selecionada. Passar nil limpa a seleção.
// Se a instância desmarcada ainda estiver sob o cursor, o hover é reaplicado.
func (h *Highlighter) SetActive(node *scene.Node) {
	if node == h.active {
		return
	}

	if h.active != nil {
		if h.active == h.hover {
			applyEmissive(h.active, h.hoverColor)
		} else {
			clearEmissive(h.active)
		}
	}

	h.active = node
	if h.active != nil {
		applyEmissive(h.active, h.activeColor)
	}
}

// Clear remove ambos os destaques (usado no rebuild da cena, quando as
// instâncias cacheadas deixam de existir).
func (h *Highlighter) Clear() {
	h.SetHover(nil)
	h.SetActive(nil)
}

// Forget descarta referências a uma instância removida da cena sem tocar nos
// materiais dela (o nó já saiu do grafo; escrever nele seria inútil).
func (h *Highlighter) Forget(node *scene.Node) {
	if node == nil {
		return
	}
	if h.hover == node {
		h.hover = nil
	}
	if h.active == node {
		h.active = nil
	}
}

func applyEmissive(node *scene.Node, c scene.Color) {
	node.EachMaterial(func(m *scene.Material) {
		m.Emissive = c
	})
}

func clearEmissive(node *scene.Node) {
	node.EachMaterial(func(m *scene.Material) {
		m.Emissive = scene.Color{}
	})
}
