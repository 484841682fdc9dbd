package mapdata

// Tile é uma célula do grid da cidade, opcionalmente ocupada por uma construção.
type Tile struct {
	X, Y     int
	Building Building // nil = tile vazio

	// MeshOutOfDate marca que a representação visual não corresponde mais aos dados.
	// O sincronizador reconstrói o mesh no próximo passe e limpa a flag.
	MeshOutOfDate bool
}

// HasBuilding indica se o tile possui uma construção.
func (t *Tile) HasBuilding() bool {
	return t.Building != nil
}

// ClearStale limpa a flag de mesh desatualizado após a reconstrução.
func (t *Tile) ClearStale() {
	t.MeshOutOfDate = false
}

// RoadData retorna os dados de via do tile, ou nil se não houver via.
func (t *Tile) RoadData() *Road {
	if road, ok := t.Building.(*Road); ok {
		return road
	}
	return nil
}
