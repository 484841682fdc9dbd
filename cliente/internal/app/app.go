package app

import (
	"log"

	"CityVision/cliente/internal/assets"
	"CityVision/cliente/internal/camera"
	"CityVision/cliente/internal/client"
	"CityVision/cliente/internal/meshing"
	"CityVision/cliente/internal/picking"
	"CityVision/cliente/internal/render"
	"CityVision/cliente/internal/scenesync"
	"CityVision/cliente/internal/store"
	"CityVision/cliente/internal/traffic"
	"CityVision/cliente/internal/scene"
	"CityVision/shared/config"
	"CityVision/shared/mapdata"
	"CityVision/shared/protocol"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Carregando catálogo e aguardando snapshot
	StateViewing                 // Visualizando a cidade
	StatePaused                  // Pausado
)

// App é a aplicação principal do CityVision.
type App struct {
	Config *config.Config
	State  AppState

	Cam *camera.CameraController

	// Pipeline de cena
	world       *mapdata.World
	library     *assets.Library
	factory     *meshing.Factory
	traffic     *traffic.Graph
	sync        *scenesync.Synchronizer
	picker      *picking.Picker
	highlighter *picking.Highlighter
	renderer    *render.Renderer

	// Comunicação e persistência local
	netClient   *client.NetworkClient
	viewerStore *store.ViewerStore

	// Controle do loop
	frameCount   int
	lastRevision int64

	// Estado da tela de carga
	loadingSkipped bool
	snapshotReady  bool
	WorldName      string
	statusMsg      string
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:       cfg,
		State:        StateLoading,
		lastRevision: -1,
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)

	a.Cam = camera.New()
	a.Cam.Resize(a.Config.WindowWidth, a.Config.WindowHeight)

	log.Println("[CityVision] Janela inicializada com sucesso")
	log.Printf("[CityVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	// Pipeline de cena: renderer é a fonte de modelos da biblioteca
	a.renderer = render.NewRenderer()
	catalog, err := assets.LoadCatalog(a.Config.CatalogPath)
	if err != nil {
		log.Printf("[App] ERRO no catálogo %s: %v; usando o embutido", a.Config.CatalogPath, err)
		catalog = assets.DefaultCatalog()
	}
	a.library = assets.NewLibrary(catalog, a.renderer.LoadModel, func() {
		log.Println("[App] Catálogo pronto; aguardando snapshot do servidor")
	})
	a.library.Begin()

	a.factory = meshing.NewFactory(a.library)
	a.traffic = traffic.NewGraph(a.factory)
	a.sync = scenesync.New(a.factory, a.traffic)
	a.picker = picking.NewPicker(a.sync.DynamicRoot())
	a.highlighter = picking.NewHighlighter(
		highlightColor(a.Config.HoverColor),
		highlightColor(a.Config.ActiveColor),
	)

	// Mundo começa vazio; o snapshot do servidor define o tamanho real
	a.world = mapdata.NewWorld(0)
	a.netClient = client.NewNetworkClient(a.Config.ServerURL, a.world)
	a.netClient.OnWelcome = func(w protocol.Welcome) { a.WorldName = w.WorldName }
	a.netClient.OnSnapshot = func(size int) { a.snapshotReady = true }
	a.netClient.OnStatus = func(msg string) { a.statusMsg = msg }
	go a.netClient.Connect()

	// Banco local de bookmarks/anotações; falha não é fatal
	if vs, err := store.Open(a.Config.ViewerDBPath); err != nil {
		log.Printf("[App] AVISO: banco do visualizador indisponível: %v", err)
	} else {
		a.viewerStore = vs
	}

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	// Resultados de carga sempre drenam no loop principal
	a.library.Pump()

	if rl.IsWindowResized() {
		a.Cam.Resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	}

	switch a.State {
	case StateLoading:
		a.updateLoading()
	case StateViewing:
		a.updateViewing()
	case StatePaused:
		a.updateInput()
	}
}

// updateLoading espera a barreira de pronto do catálogo e o primeiro snapshot.
func (a *App) updateLoading() {
	if rl.IsKeyPressed(rl.KeySpace) && a.library.Failed() > 0 {
		// Carga travada por falha de recurso: o usuário pode seguir com
		// placeholders em vez de esperar para sempre
		log.Printf("[App] Espera de catálogo pulada (%d falhas); instâncias ausentes virarão erro de log",
			a.library.Failed())
		a.loadingSkipped = true
	}

	catalogDone := a.library.Ready() || a.loadingSkipped
	if !catalogDone || !a.snapshotReady {
		return
	}

	if err := a.sync.Initialize(a.world); err != nil {
		log.Printf("[App] ERRO ao inicializar a cena: %v", err)
		return
	}
	a.lastRevision = a.world.Revision()
	a.sync.ApplyChanges(a.world)
	a.sync.Start()
	a.Cam.SetTarget(rl.Vector3{
		X: float32(a.world.Size()) / 2,
		Z: float32(a.world.Size()) / 2,
	})
	a.State = StateViewing
	log.Printf("[App] Cena pronta: mundo %dx%d", a.world.Size(), a.world.Size())
}

// updateViewing roda o frame normal: rede -> mundo -> cena -> input.
func (a *App) updateViewing() {
	dt := rl.GetFrameTime()

	// Atualizações de rede entram no mundo apenas aqui, no loop principal
	a.netClient.ApplyPending()

	// Sincroniza a cena só quando o mundo de fato mudou
	if rev := a.world.Revision(); rev != a.lastRevision {
		a.sync.ApplyChanges(a.world)
		a.lastRevision = rev
	}

	a.sync.Tick(dt)
	a.updateCamera(dt)
	a.updateInput()
	a.updatePicking()
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	a.sync.Stop()
	a.netClient.Close()

	if a.viewerStore != nil {
		a.viewerStore.Close()
	}
	a.renderer.Unload()

	if err := a.Config.Save(); err != nil {
		log.Printf("[CityVision] Erro ao salvar configurações: %v", err)
	}
}

func highlightColor(rgb [3]uint8) scene.Color {
	return scene.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}
