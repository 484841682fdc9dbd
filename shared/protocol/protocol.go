package protocol

import (
	"encoding/json"
	"fmt"

	"CityVision/shared/mapdata"
)

// Version é a versão do protocolo cliente/servidor.
const Version = "1.0"

// Tipos de mensagem do envelope.
const (
	TypeWelcome    = "WELCOME"
	TypeSnapshot   = "SNAPSHOT"
	TypeTileUpdate = "TILE_UPDATE"
	TypeStatus     = "STATUS"
)

// Envelope embrulha toda mensagem trocada via WebSocket.
// O roteamento é feito pelo campo Type; o payload é JSON específico do tipo.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Welcome é enviada pelo servidor logo após o handshake.
type Welcome struct {
	ProtocolVersion string `json:"protocol_version"`
	WorldName       string `json:"world_name"`
	WorldSize       int    `json:"world_size"`
}

// Status carrega mensagens informativas do servidor.
type Status struct {
	Message string `json:"message"`
}

// WireBuilding é a forma serializada de uma construção.
// Kind discrimina a variante; campos irrelevantes para a variante ficam zerados.
type WireBuilding struct {
	Kind        string  `json:"kind"` // "zone" | "road" | outro (não reconhecido)
	ZoneType    string  `json:"zone_type,omitempty"`
	RoadType    string  `json:"road_type,omitempty"`
	Style       string  `json:"style,omitempty"`
	Level       int     `json:"level,omitempty"`
	Rotation    float32 `json:"rotation,omitempty"`
	Abandoned   bool    `json:"abandoned,omitempty"`
	Developed   bool    `json:"developed,omitempty"`
	HideTerrain bool    `json:"hide_terrain,omitempty"`
}

// TileUpdate comunica a mudança de um único tile.
// Building nulo significa remoção da construção.
type TileUpdate struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Building *WireBuilding `json:"building"`
}

// Snapshot é o estado completo do mundo, enviado comprimido no ingresso do cliente.
type Snapshot struct {
	WorldSize int          `json:"world_size"`
	Tiles     []TileUpdate `json:"tiles"`
}

// Encode embrulha um payload em um envelope serializado.
func Encode(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("falha ao serializar payload %s: %w", msgType, err)
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// DecodeEnvelope extrai o envelope de uma mensagem bruta.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("envelope inválido: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("envelope sem campo type")
	}
	return env, nil
}

// ToBuilding converte a forma de rede em uma variante do modelo de mundo.
// Kinds desconhecidos viram mapdata.Unknown: o visualizador loga e segue sem mesh.
func (wb *WireBuilding) ToBuilding() mapdata.Building {
	if wb == nil {
		return nil
	}
	switch wb.Kind {
	case "zone":
		return &mapdata.Zone{
			ZoneType:    wb.ZoneType,
			Style:       wb.Style,
			Level:       wb.Level,
			Rotation:    wb.Rotation,
			Abandoned:   wb.Abandoned,
			Developed:   wb.Developed,
			HideTerrain: wb.HideTerrain,
		}
	case "road":
		return &mapdata.Road{
			RoadType:    wb.RoadType,
			Style:       wb.Style,
			Rotation:    wb.Rotation,
			HideTerrain: wb.HideTerrain,
		}
	default:
		return &mapdata.Unknown{RawKind: wb.Kind}
	}
}

// FromBuilding converte uma variante do modelo de mundo para a forma de rede.
func FromBuilding(b mapdata.Building) *WireBuilding {
	switch v := b.(type) {
	case *mapdata.Zone:
		return &WireBuilding{
			Kind:        "zone",
			ZoneType:    v.ZoneType,
			Style:       v.Style,
			Level:       v.Level,
			Rotation:    v.Rotation,
			Abandoned:   v.Abandoned,
			Developed:   v.Developed,
			HideTerrain: v.HideTerrain,
		}
	case *mapdata.Road:
		return &WireBuilding{
			Kind:        "road",
			RoadType:    v.RoadType,
			Style:       v.Style,
			Rotation:    v.Rotation,
			HideTerrain: v.HideTerrain,
		}
	case *mapdata.Unknown:
		return &WireBuilding{Kind: v.RawKind}
	default:
		return nil
	}
}
