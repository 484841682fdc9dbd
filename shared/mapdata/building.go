package mapdata

// Building é a variante fechada de construções que podem ocupar um tile.
// O sincronizador de cena faz dispatch exaustivo sobre Zone/Road e trata qualquer
// outro tipo como não reconhecido (aviso + tile sem mesh, nunca aborta o passe).
type Building interface {
	// Kind retorna o identificador textual do tipo de construção.
	Kind() string
	// HidesTerrain indica se o terreno sob a construção deve ficar oculto.
	HidesTerrain() bool
}

// Tipos de zona reconhecidos.
const (
	ZoneResidential = "residential"
	ZoneCommercial  = "commercial"
	ZoneIndustrial  = "industrial"
)

// Tipos de via reconhecidos.
const (
	RoadStraight     = "straight"
	RoadEnd          = "end"
	RoadCorner       = "corner"
	RoadTee          = "tee"
	RoadIntersection = "intersection"
)

// Zone é uma construção de zoneamento (residencial, comercial ou industrial).
// O nome do modelo 3D é derivado de ZoneType, Style e Level.
type Zone struct {
	ZoneType    string
	Style       string // variação visual: "A", "B", "C"
	Level       int    // nível de desenvolvimento: 1..3
	Rotation    float32
	Abandoned   bool
	Developed   bool
	HideTerrain bool
}

func (z *Zone) Kind() string       { return z.ZoneType }
func (z *Zone) HidesTerrain() bool { return z.HideTerrain }

// Road é um segmento de via. O nome do modelo 3D é derivado de RoadType e Style.
type Road struct {
	RoadType    string
	Style       string
	Rotation    float32
	HideTerrain bool
}

func (r *Road) Kind() string       { return "road." + r.RoadType }
func (r *Road) HidesTerrain() bool { return r.HideTerrain }

// Unknown representa um tipo de construção que o visualizador não reconhece.
// Mantido explícito para que o passe de sincronização trate o caso sem type check solto.
type Unknown struct {
	RawKind string
}

func (u *Unknown) Kind() string       { return u.RawKind }
func (u *Unknown) HidesTerrain() bool { return false }
