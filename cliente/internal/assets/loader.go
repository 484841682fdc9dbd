package assets

import (
	"errors"
	"fmt"
	"log"

	"CityVision/cliente/internal/scene"
)

// ErrResourceNotFound indica que um template foi pedido antes de carregar
// ou com um nome ausente do catálogo.
var ErrResourceNotFound = errors.New("recurso não encontrado no catálogo")

// ModelSource resolve um sourceRef em um nó de cena carregado do disco.
// A implementação de produção vive no pacote render (raylib); testes injetam fakes.
type ModelSource func(sourceRef string) (*scene.Node, error)

// escala canônica dos modelos: os arquivos são autorados a 30 unidades por tile.
const modelUnitsPerTile = 30.0

type loadResult struct {
	name string
	node *scene.Node
	err  error
}

// Library carrega o catálogo declarado e guarda um template canônico por nome.
//
// Cada recurso é carregado por uma goroutine própria (fire-and-forget); o resultado
// volta por canal e é aplicado por Pump() no contexto do loop principal, então
// normalização, contagem e o callback de pronto nunca rodam concorrentes com a
// sincronização de cena. Só a CONTAGEM de sucessos libera o ready: falhas são
// logadas e nunca incrementam o contador (risco de inanição documentado — o
// chamador protege com timeout/skip externo).
type Library struct {
	catalog *Catalog
	source  ModelSource

	templates map[string]*scene.Node
	results   chan loadResult

	completed int
	failed    int
	ready     bool
	started   bool

	onReady    func()
	onProgress func(done, total int) // consultivo; nenhum estado observável muda
}

// NewLibrary cria a biblioteca de templates para um catálogo fixo.
func NewLibrary(catalog *Catalog, source ModelSource, onReady func()) *Library {
	return &Library{
		catalog:   catalog,
		source:    source,
		templates: make(map[string]*scene.Node, catalog.Len()),
		results:   make(chan loadResult, catalog.Len()),
		onReady:   onReady,
	}
}

// SetProgressCallback registra um callback consultivo de progresso.
func (l *Library) SetProgressCallback(fn func(done, total int)) {
	l.onProgress = fn
}

// Begin dispara as cargas assíncronas de todos os recursos declarados.
// Idempotente: chamadas repetidas não redisparam cargas.
func (l *Library) Begin() {
	if l.started {
		return
	}
	l.started = true

	l.catalog.Each(func(d ResourceDescriptor) {
		go func(d ResourceDescriptor) {
			node, err := l.source(d.SourceRef)
			l.results <- loadResult{name: d.Name, node: node, err: err}
		}(d)
	})

	if l.catalog.Len() == 0 {
		// Catálogo vazio: pronto imediato no próximo Pump
		l.checkReady()
	}
}

// Pump drena as cargas concluídas e aplica a normalização no contexto do chamador.
// Deve ser chamado uma vez por frame pelo loop principal.
func (l *Library) Pump() {
	for {
		select {
		case res := <-l.results:
			l.apply(res)
		default:
			return
		}
	}
}

func (l *Library) apply(res loadResult) {
	desc := l.catalog.Get(res.name)
	if desc == nil {
		// Não deveria acontecer: as goroutines só carregam nomes do catálogo.
		log.Printf("[Assets] Resultado de carga para nome desconhecido: %s", res.name)
		return
	}

	if res.err != nil {
		l.failed++
		log.Printf("[Assets] FALHA ao carregar %s (%s): %v", res.name, desc.SourceRef, res.err)
		return
	}

	l.templates[res.name] = normalize(res.node, desc)
	l.completed++

	if l.onProgress != nil {
		l.onProgress(l.completed, l.catalog.Len())
	}
	l.checkReady()
}

func (l *Library) checkReady() {
	if l.ready || l.completed != l.catalog.Len() {
		return
	}
	l.ready = true
	log.Printf("[Assets] Catálogo completo: %d templates prontos", l.completed)
	if l.onReady != nil {
		l.onReady()
	}
}

// normalize transforma o nó carregado no template canônico:
// posição na origem, rotação do descritor, escala uniforme Scale/30, flags de
// sombra e um único material compartilhado entre todas as sub-partes.
func normalize(node *scene.Node, desc *ResourceDescriptor) *scene.Node {
	node.Name = desc.Name
	node.Position = [3]float32{0, 0, 0}
	node.RotationY = desc.RotationDegrees

	s := desc.Scale / modelUnitsPerTile
	node.Scale = [3]float32{s, s, s}

	shared := node.Material
	if shared == nil {
		shared = scene.NewMaterial(desc.Name)
	}
	shared.Name = desc.Name

	node.Walk(func(part *scene.Node) bool {
		part.CastShadow = desc.Casts()
		part.ReceiveShadow = desc.Receives()
		if part.Geometry != nil || part.Material != nil {
			part.Material = shared
		}
		return true
	})
	return node
}

// Ready indica se todos os recursos declarados já carregaram com sucesso.
func (l *Library) Ready() bool { return l.ready }

// Completed retorna quantas cargas terminaram com sucesso.
func (l *Library) Completed() int { return l.completed }

// Failed retorna quantas cargas falharam (nunca contam para o ready).
func (l *Library) Failed() int { return l.failed }

// Total retorna o tamanho fixo do catálogo.
func (l *Library) Total() int { return l.catalog.Len() }

// Catalog expõe o catálogo declarado (somente leitura por convenção).
func (l *Library) Catalog() *Catalog { return l.catalog }

// Template retorna o template canônico de um nome.
// Falha com ErrResourceNotFound se o nome não existe ou ainda não carregou.
func (l *Library) Template(name string) (*scene.Node, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrResourceNotFound, name)
	}
	return t, nil
}

// CloneInstance retorna uma instância independente de um template: geometria
// compartilhada, material clonado por sub-parte, transparência aplicada ao clone.
func (l *Library) CloneInstance(name string, transparent bool) (*scene.Node, error) {
	t, err := l.Template(name)
	if err != nil {
		return nil, err
	}
	inst := t.Clone()
	inst.EachMaterial(func(m *scene.Material) {
		m.SetTransparent(transparent)
	})
	return inst, nil
}
