package camera

import (
	"math"

	"CityVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção estritamente.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

// Planos de recorte usados tanto no render quanto na projeção do picking.
const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// CameraController gerencia a lógica de movimentação e projeção da câmera.
// Movimento suave com zoom que afeta a velocidade; expõe as matrizes de
// projeção/visão para o picking e um hook de resize para o viewport.
type CameraController struct {
	// Estado interno do Raylib
	RLCamera rl.Camera3D

	// Configurações
	Mode           Mode
	MinZoom        float32
	MaxZoom        float32
	MoveSpeed      float32
	RotateSpeed    float32
	ZoomSpeed      float32
	SmoothFactor   float32 // 0.0 a 1.0 (quanto menor, mais suave/lento)

	// Estado Alvo (para interpolação suave)
	TargetLookAt rl.Vector3 // Para onde a câmera quer olhar (ponto central)
	TargetZoom   float32    // Zoom desejado
	TargetAngleY float32    // Rotação horizontal atual (radianos)
	TargetAngleX float32    // Elevação atual (radianos)

	// Estado Atual (interpolado)
	CurrentLookAt rl.Vector3
	CurrentZoom   float32

	// Viewport atual (atualizado via Resize)
	ViewportWidth  int32
	ViewportHeight int32
}

// New cria um novo controlador de câmera.
func New() *CameraController {
	c := &CameraController{
		Mode:         ModePerspective,
		MinZoom:      5.0,
		MaxZoom:      200.0,
		MoveSpeed:    50.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.1, // Ajuste fino para sensação de peso

		// Valores iniciais
		TargetLookAt: rl.Vector3{X: 0, Y: 0, Z: 0},
		TargetZoom:   50.0,
		TargetAngleY: 45.0 * rl.Deg2rad,  // 45 graus (padrão isométrico)
		TargetAngleX: -30.0 * rl.Deg2rad, // -30 graus (olhando de cima)

		ViewportWidth:  1280,
		ViewportHeight: 720,
	}

	// Inicializa os valores atuais com os alvos para não "saltar" no início
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}

	c.recalc()
	return c
}

// SetTarget define o alvo da câmera imediatamente (sem suavização).
func (c *CameraController) SetTarget(pos rl.Vector3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.recalc()
}

// Resize atualiza as dimensões do viewport; afeta a razão de aspecto da projeção.
func (c *CameraController) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.ViewportWidth = width
	c.ViewportHeight = height
}

// Aspect retorna a razão de aspecto do viewport atual.
func (c *CameraController) Aspect() float32 {
	if c.ViewportHeight == 0 {
		return 1
	}
	return float32(c.ViewportWidth) / float32(c.ViewportHeight)
}

// Update calcula a nova posição da câmera com base no tempo (dt).
// Deve ser chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	// Amortecimento linear normalizado para 60 FPS
	factor := c.SmoothFactor * 60.0 * dt
	if factor > 1.0 {
		factor = 1.0
	}

	curVec := mgl32.Vec3{c.CurrentLookAt.X, c.CurrentLookAt.Y, c.CurrentLookAt.Z}
	tgtVec := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}
	lerped := curVec.Add(tgtVec.Sub(curVec).Mul(factor))

	c.CurrentLookAt = rl.Vector3{X: lerped.X(), Y: lerped.Y(), Z: lerped.Z()}
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)

	c.recalc()
}

// recalc recalcula a posição da câmera a partir dos ângulos e zoom atuais.
func (c *CameraController) recalc() {
	dist := c.CurrentZoom

	// No modo ortográfico o zoom é controlado pelo Fovy (escala); a câmera fica
	// longe apenas para não cortar a geometria no near plane.
	if c.Mode == ModeOrthographic {
		c.RLCamera.Fovy = c.CurrentZoom * 0.5
		c.RLCamera.Projection = rl.CameraOrthographic
		dist = 200.0
	} else {
		c.RLCamera.Fovy = 45.0
		c.RLCamera.Projection = rl.CameraPerspective
	}

	// Conversão esférica -> cartesiana
	cosX := float32(math.Cos(float64(c.TargetAngleX)))
	sinX := float32(math.Sin(float64(c.TargetAngleX)))
	cosY := float32(math.Cos(float64(c.TargetAngleY)))
	sinY := float32(math.Sin(float64(c.TargetAngleY)))

	offsetX := dist * cosX * sinY
	offsetY := dist * -sinX // Y é UP; sinX negativo pois olhamos de cima para baixo
	offsetZ := dist * cosX * cosY

	c.RLCamera.Position = rl.Vector3{
		X: c.CurrentLookAt.X + offsetX,
		Y: c.CurrentLookAt.Y + offsetY,
		Z: c.CurrentLookAt.Z + offsetZ,
	}

	c.RLCamera.Target = c.CurrentLookAt
}

// SetMode alterna entre Perspectiva e Ortográfica.
func (c *CameraController) SetMode(mode Mode) {
	c.Mode = mode
	c.recalc()
}

// ViewMatrix retorna a matriz de visão atual.
func (c *CameraController) ViewMatrix() mgl32.Mat4 {
	pos := c.RLCamera.Position
	tgt := c.RLCamera.Target
	up := c.RLCamera.Up
	return mgl32.LookAtV(
		mgl32.Vec3{pos.X, pos.Y, pos.Z},
		mgl32.Vec3{tgt.X, tgt.Y, tgt.Z},
		mgl32.Vec3{up.X, up.Y, up.Z},
	)
}

// ProjectionMatrix retorna a matriz de projeção para uma razão de aspecto.
func (c *CameraController) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if c.Mode == ModeOrthographic {
		halfH := c.RLCamera.Fovy / 2
		halfW := halfH * aspect
		return mgl32.Ortho(-halfW, halfW, -halfH, halfH, nearPlane, farPlane)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.RLCamera.Fovy), aspect, nearPlane, farPlane)
}

// HandleInput processa entrada do usuário. Retorna true se houve input de movimento.
func (c *CameraController) HandleInput(dt float32) bool {
	moved := false

	// Zoom com Scroll
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		moved = true
		c.TargetZoom -= wheel * c.ZoomSpeed
		c.TargetZoom = util.Clamp(c.TargetZoom, c.MinZoom, c.MaxZoom)
	}

	// Rotação com botão do meio (Orbit); o esquerdo é reservado para seleção
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.TargetAngleY -= delta.X * c.RotateSpeed * 0.005
		c.TargetAngleX -= delta.Y * c.RotateSpeed * 0.005

		// Clamp na elevação: entre -89 graus (quase topo) e -5 graus (quase horizonte)
		maxElev := float32(-5.0 * rl.Deg2rad)
		minElev := float32(-89.0 * rl.Deg2rad)
		c.TargetAngleX = util.Clamp(c.TargetAngleX, minElev, maxElev)
	}

	// Movimento WASD relativo à câmera, projetado no plano do chão
	camPos := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
	targetPos := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}

	forward := targetPos.Sub(camPos)
	forward[1] = 0
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}

	right := forward.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() > 0 {
		right = right.Normalize()
	}

	// Velocidade proporcional ao zoom: quanto mais alto, mais rápido
	currentSpeed := c.MoveSpeed * (c.CurrentZoom / 50.0) * dt

	move := mgl32.Vec3{}
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}

	if move.Len() > 0 {
		move = move.Normalize().Mul(currentSpeed)
		targetPos = targetPos.Add(move)
		c.TargetLookAt = rl.Vector3{X: targetPos.X(), Y: targetPos.Y(), Z: targetPos.Z()}
		moved = true
	}

	return moved
}
