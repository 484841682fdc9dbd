package client

import (
	"encoding/json"
	"testing"

	"CityVision/shared/mapdata"
	"CityVision/shared/protocol"
)

func envelope(t *testing.T, msgType string, payload any) protocol.Envelope {
	t.Helper()
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("Encode falhou: %v", err)
	}
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope falhou: %v", err)
	}
	return env
}

func TestHandleWelcome(t *testing.T) {
	c := NewNetworkClient("", mapdata.NewWorld(4))

	var got protocol.Welcome
	c.OnWelcome = func(w protocol.Welcome) { got = w }

	c.handleEnvelope(envelope(t, protocol.TypeWelcome, protocol.Welcome{
		ProtocolVersion: protocol.Version,
		WorldName:       "demo",
		WorldSize:       16,
	}))

	if got.WorldName != "demo" || got.WorldSize != 16 {
		t.Errorf("callback de welcome não disparou: %+v", got)
	}
}

func TestTileUpdateIsQueuedNotApplied(t *testing.T) {
	w := mapdata.NewWorld(4)
	c := NewNetworkClient("", w)

	c.handleEnvelope(envelope(t, protocol.TypeTileUpdate, protocol.TileUpdate{
		X: 1, Y: 2,
		Building: &protocol.WireBuilding{Kind: "road", RoadType: mapdata.RoadStraight, Style: "paved"},
	}))

	// A goroutine de rede só enfileira; o mundo muda no ApplyPending
	if w.Tile(1, 2).HasBuilding() {
		t.Fatal("atualização foi aplicada fora do loop principal")
	}
	if c.PendingCount() != 1 {
		t.Fatalf("fila = %d, esperado 1", c.PendingCount())
	}

	if n := c.ApplyPending(); n != 1 {
		t.Errorf("ApplyPending aplicou %d, esperado 1", n)
	}
	tile := w.Tile(1, 2)
	if !tile.HasBuilding() || tile.RoadData() == nil {
		t.Error("via não chegou ao modelo de mundo")
	}
	if !tile.MeshOutOfDate {
		t.Error("tile aplicado deveria estar marcado stale")
	}
}

func TestTileUpdatesCollapsePerCoordinate(t *testing.T) {
	w := mapdata.NewWorld(4)
	c := NewNetworkClient("", w)

	first := protocol.TileUpdate{X: 0, Y: 0,
		Building: &protocol.WireBuilding{Kind: "road", RoadType: mapdata.RoadStraight}}
	second := protocol.TileUpdate{X: 0, Y: 0,
		Building: &protocol.WireBuilding{Kind: "road", RoadType: mapdata.RoadTee}}

	c.handleEnvelope(envelope(t, protocol.TypeTileUpdate, first))
	c.handleEnvelope(envelope(t, protocol.TypeTileUpdate, second))

	if c.PendingCount() != 1 {
		t.Fatalf("fila = %d, duas mudanças do mesmo tile deveriam colapsar", c.PendingCount())
	}

	c.ApplyPending()
	if road := w.Tile(0, 0).RoadData(); road == nil || road.RoadType != mapdata.RoadTee {
		t.Errorf("deveria valer o estado mais novo, veio %+v", road)
	}
}

func TestInvalidTileUpdateIsRejectedAtTheEdge(t *testing.T) {
	c := NewNetworkClient("", mapdata.NewWorld(4))

	// Coordenada negativa viola o schema; nem chega à fila
	c.handleEnvelope(protocol.Envelope{
		Type:    protocol.TypeTileUpdate,
		Payload: json.RawMessage(`{"x": -1, "y": 0, "building": null}`),
	})
	// Building sem kind idem
	c.handleEnvelope(protocol.Envelope{
		Type:    protocol.TypeTileUpdate,
		Payload: json.RawMessage(`{"x": 0, "y": 0, "building": {}}`),
	})

	if c.PendingCount() != 0 {
		t.Errorf("payloads inválidos entraram na fila: %d", c.PendingCount())
	}
}

func TestSnapshotResetsWorldAndDropsPending(t *testing.T) {
	w := mapdata.NewWorld(2)
	c := NewNetworkClient("", w)

	var snapSize int
	c.OnSnapshot = func(size int) { snapSize = size }

	// Atualização pendente anterior ao snapshot: deve ser descartada
	c.handleEnvelope(envelope(t, protocol.TypeTileUpdate, protocol.TileUpdate{
		X: 0, Y: 0,
		Building: &protocol.WireBuilding{Kind: "road", RoadType: mapdata.RoadEnd},
	}))

	blob, err := protocol.EncodeSnapshot(&protocol.Snapshot{
		WorldSize: 3,
		Tiles: []protocol.TileUpdate{
			{X: 2, Y: 2, Building: &protocol.WireBuilding{
				Kind: "zone", ZoneType: mapdata.ZoneResidential, Style: "A", Level: 1, Developed: true,
			}},
		},
	})
	if err != nil {
		t.Fatalf("EncodeSnapshot falhou: %v", err)
	}
	c.handleEnvelope(envelope(t, protocol.TypeSnapshot, blob))

	if w.Size() != 3 {
		t.Fatalf("mundo = %dx%d, snapshot pedia 3x3", w.Size(), w.Size())
	}
	if snapSize != 3 {
		t.Error("callback de snapshot não disparou")
	}
	if c.PendingCount() != 0 {
		t.Error("atualizações anteriores ao snapshot deveriam ser descartadas")
	}
	if !w.Tile(2, 2).HasBuilding() {
		t.Error("construção do snapshot não chegou ao mundo")
	}
}

func TestUnknownEnvelopeTypeIsIgnored(t *testing.T) {
	w := mapdata.NewWorld(2)
	c := NewNetworkClient("", w)
	rev := w.Revision()

	c.handleEnvelope(protocol.Envelope{Type: "TELEPORT", Payload: json.RawMessage(`{}`)})

	if w.Revision() != rev || c.PendingCount() != 0 {
		t.Error("mensagem desconhecida não deveria ter efeito")
	}
}
