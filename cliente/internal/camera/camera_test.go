package camera

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

func rlVec(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}

func TestUpdateConvergesToTarget(t *testing.T) {
	c := New()
	c.TargetLookAt.X = 10
	c.TargetLookAt.Z = -5
	c.TargetZoom = 80

	for i := 0; i < 600; i++ {
		c.Update(1.0 / 60.0)
	}

	if math.Abs(float64(c.CurrentLookAt.X-10)) > 0.01 ||
		math.Abs(float64(c.CurrentLookAt.Z+5)) > 0.01 {
		t.Errorf("LookAt não convergiu: %+v", c.CurrentLookAt)
	}
	if math.Abs(float64(c.CurrentZoom-80)) > 0.01 {
		t.Errorf("Zoom não convergiu: %f", c.CurrentZoom)
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := New()
	c.SetTarget(rlVec(3, 0, 7))

	view := c.ViewMatrix()

	// O alvo transformado pela view precisa cair no eixo -Z da câmera
	p := mgl32.TransformCoordinate(mgl32.Vec3{3, 0, 7}, view)
	if p.Z() >= 0 {
		t.Errorf("alvo ficou atrás da câmera: %v", p)
	}
	if math.Abs(float64(p.X())) > 0.001 || math.Abs(float64(p.Y())) > 0.001 {
		t.Errorf("alvo fora do centro da visão: %v", p)
	}
}

func TestProjectionMatrixPerModo(t *testing.T) {
	c := New()

	persp := c.ProjectionMatrix(16.0 / 9.0)
	// Perspectiva tem W dependente de Z (m[11] = -1)
	if persp[11] != -1 {
		t.Errorf("projeção perspectiva inesperada: m[11] = %f", persp[11])
	}

	c.SetMode(ModeOrthographic)
	ortho := c.ProjectionMatrix(16.0 / 9.0)
	if ortho[11] != 0 || ortho[15] != 1 {
		t.Errorf("projeção ortográfica inesperada: m[11]=%f m[15]=%f", ortho[11], ortho[15])
	}
}

func TestResizeGuardsInvalidDimensions(t *testing.T) {
	c := New()
	c.Resize(1920, 1080)
	if c.Aspect() < 1.7 || c.Aspect() > 1.8 {
		t.Errorf("Aspect = %f, esperado ~1.78", c.Aspect())
	}

	c.Resize(0, -5)
	if c.ViewportWidth != 1920 || c.ViewportHeight != 1080 {
		t.Error("Resize com dimensões inválidas não deveria alterar o viewport")
	}
}
