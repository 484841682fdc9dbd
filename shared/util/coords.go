package util

import "fmt"

// GridCoord representa uma coordenada no grid 2D da cidade.
// X = leste/oeste, Y = norte/sul (o eixo vertical da cena é derivado, não armazenado)
type GridCoord struct {
	X, Y int
}

// NewGridCoord cria uma nova coordenada de grid.
func NewGridCoord(x, y int) GridCoord {
	return GridCoord{X: x, Y: y}
}

// Add soma duas coordenadas.
func (c GridCoord) Add(other GridCoord) GridCoord {
	return GridCoord{X: c.X + other.X, Y: c.Y + other.Y}
}

// Equals verifica igualdade entre coordenadas.
func (c GridCoord) Equals(other GridCoord) bool {
	return c.X == other.X && c.Y == other.Y
}

// String retorna a representação em string da coordenada.
func (c GridCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// InBounds verifica se a coordenada está dentro de um grid quadrado de lado size.
func (c GridCoord) InBounds(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Index achata a coordenada para um índice linear em um grid quadrado de lado size.
// Pré-condição: a coordenada está dentro dos limites.
func (c GridCoord) Index(size int) int {
	return c.Y*size + c.X
}

// CoordFromIndex reconstrói a coordenada a partir de um índice linear.
func CoordFromIndex(index, size int) GridCoord {
	return GridCoord{X: index % size, Y: index / size}
}

// Neighbors4 retorna os quatro vizinhos ortogonais (N, S, L, O), sem checar limites.
func (c GridCoord) Neighbors4() [4]GridCoord {
	return [4]GridCoord{
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
	}
}
