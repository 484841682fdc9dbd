package app

import (
	"log"

	"CityVision/cliente/internal/camera"
	"CityVision/cliente/internal/render"
	"CityVision/cliente/internal/store"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera(dt float32) {
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	// Alternar projeção com P
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.SetMode(camera.ModeOrthographic)
			log.Println("[Camera] Modo Ortográfico")
		} else {
			a.Cam.SetMode(camera.ModePerspective)
			log.Println("[Camera] Modo Perspectiva")
		}
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	// Toggle debug info
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Toggle grid
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Bookmark rápido da câmera (F5 salva, F9 restaura)
	if rl.IsKeyPressed(rl.KeyF5) {
		a.saveQuickBookmark()
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		a.loadQuickBookmark()
	}

	// ESC: Alternar Pausa
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StateViewing {
			a.State = StatePaused
			a.sync.Stop()
			log.Println("[App] Visualização pausada")
		} else if a.State == StatePaused {
			a.State = StateViewing
			a.sync.Start()
			log.Println("[App] Retomando visualização")
		}
	}
}

// updatePicking resolve hover e seleção a cada frame no estado de visualização.
func (a *App) updatePicking() {
	mouse := rl.GetMousePosition()
	view := a.Cam.ViewMatrix()
	proj := a.Cam.ProjectionMatrix(a.Cam.Aspect())

	hit := a.picker.PickScreen(
		mouse.X, mouse.Y,
		float32(a.Cam.ViewportWidth), float32(a.Cam.ViewportHeight),
		view, proj,
	)
	a.highlighter.SetHover(hit)

	// Clique esquerdo marca/desmarca a seleção ativa
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if hit == a.highlighter.Active() {
			a.highlighter.SetActive(nil)
		} else {
			a.highlighter.SetActive(hit)
		}
		if active := a.highlighter.Active(); active != nil {
			log.Printf("[App] Selecionado: %s", render.Describe(active))
		}
	}
}

func (a *App) saveQuickBookmark() {
	if a.viewerStore == nil {
		return
	}
	look := a.Cam.TargetLookAt
	err := a.viewerStore.SaveBookmark(&store.Bookmark{
		Name:   "rapido",
		X:      look.X,
		Y:      look.Y,
		Z:      look.Z,
		Zoom:   a.Cam.TargetZoom,
		AngleY: a.Cam.TargetAngleY,
		AngleX: a.Cam.TargetAngleX,
	})
	if err != nil {
		log.Printf("[App] Erro ao salvar bookmark: %v", err)
		return
	}
	log.Println("[App] Bookmark rápido salvo")
}

func (a *App) loadQuickBookmark() {
	if a.viewerStore == nil {
		return
	}
	b, err := a.viewerStore.Bookmark("rapido")
	if err != nil {
		log.Printf("[App] Nenhum bookmark rápido salvo")
		return
	}
	a.Cam.TargetLookAt = rl.Vector3{X: b.X, Y: b.Y, Z: b.Z}
	a.Cam.TargetZoom = b.Zoom
	a.Cam.TargetAngleY = b.AngleY
	a.Cam.TargetAngleX = b.AngleX
	log.Println("[App] Bookmark rápido restaurado")
}
