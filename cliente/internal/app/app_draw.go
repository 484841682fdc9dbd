package app

import (
	"fmt"

	"CityVision/cliente/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	if a.State == StateLoading {
		a.drawLoadingScreen()
	} else {
		a.drawScene()
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D completa.
func (a *App) drawScene() {
	a.renderer.Draw(a.sync.Root(), a.Cam.RLCamera, a.Config.ShowGrid)

	if active := a.highlighter.Active(); active != nil {
		a.renderer.DrawSelection(active, a.Cam.RLCamera)
	}
}

// drawLoadingScreen desenha a splash com o progresso do catálogo.
func (a *App) drawLoadingScreen() {
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())

	rl.DrawText("CityVision", sw/2-120, sh/2-80, 40, rl.Gold)

	total := a.library.Total()
	done := a.library.Completed()
	progress := float32(0)
	if total > 0 {
		progress = float32(done) / float32(total)
	}

	barW := int32(400)
	barX := sw/2 - barW/2
	barY := sh / 2
	rl.DrawRectangle(barX, barY, barW, 20, rl.NewColor(50, 50, 60, 255))
	rl.DrawRectangle(barX, barY, int32(float32(barW)*progress), 20, rl.SkyBlue)
	rl.DrawRectangleLines(barX, barY, barW, 20, rl.Gray)

	status := fmt.Sprintf("Carregando modelos: %d/%d", done, total)
	if a.library.Ready() {
		status = "Aguardando snapshot do servidor..."
	}
	rl.DrawText(status, barX, barY+30, 18, rl.LightGray)

	if failed := a.library.Failed(); failed > 0 {
		rl.DrawText(fmt.Sprintf("%d modelos falharam. ESPAÇO para continuar com placeholders", failed),
			barX, barY+55, 16, rl.Orange)
	}
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(320)
	height := int32(190)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	// FPS
	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	// Conexão
	connStr := "Offline"
	connColor := rl.Red
	if a.netClient.IsConnected() {
		connStr = "Conectado"
		connColor = rl.Green
	}
	rl.DrawText(connStr, x+210, y+10, 20, connColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	// Mundo
	name := a.WorldName
	if name == "" {
		name = "(sem nome)"
	}
	rl.DrawText(name, x+10, y+45, 16, rl.Gold)
	rl.DrawText(fmt.Sprintf("Grid: %dx%d  Rev: %d", a.world.Size(), a.world.Size(), a.world.Revision()),
		x+10, y+65, 14, rl.White)

	// Cena
	stats := a.sync.LastStats()
	rl.DrawText(fmt.Sprintf("Último sync: +%d/-%d  Pendentes: %d",
		stats.Added, stats.Removed, a.netClient.PendingCount()),
		x+10, y+85, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Veículos: %d  Vias: %d", a.traffic.VehicleCount(), a.traffic.LaneCount()),
		x+10, y+105, 14, rl.LightGray)

	rl.DrawLine(x+10, y+125, x+width-10, y+125, rl.NewColor(100, 100, 100, 100))

	// Inspeção
	if hover := a.highlighter.Hover(); hover != nil {
		rl.DrawText("Cursor: "+render.Describe(hover), x+10, y+135, 14, rl.Yellow)
	} else {
		rl.DrawText("Cursor: (nenhum)", x+10, y+135, 14, rl.Gray)
	}
	if active := a.highlighter.Active(); active != nil {
		rl.DrawText("Seleção: "+render.Describe(active), x+10, y+155, 14, rl.Orange)
	} else {
		rl.DrawText("Seleção: (nenhuma)", x+10, y+155, 14, rl.Gray)
	}

	if a.statusMsg != "" {
		rl.DrawText(a.statusMsg, 10, int32(rl.GetScreenHeight())-30, 16, rl.SkyBlue)
	}
}

// drawPauseMenu desenha a sobreposição de pausa.
func (a *App) drawPauseMenu() {
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, sw, sh, rl.NewColor(0, 0, 0, 150))
	rl.DrawText("PAUSADO", sw/2-90, sh/2-40, 40, rl.White)
	rl.DrawText("ESC para retomar", sw/2-80, sh/2+10, 18, rl.LightGray)
}
