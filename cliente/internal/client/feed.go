package client

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"CityVision/shared/mapdata"
	"CityVision/shared/protocol"
	"CityVision/shared/util"

	"github.com/gorilla/websocket"
)

// NetworkClient lida com a comunicação com o servidor de simulação.
//
// As mensagens chegam em uma goroutine de leitura; TILE_UPDATEs são validados
// na borda e enfileirados em uma fila única por coordenada. O loop principal
// drena a fila via ApplyPending, de modo que o modelo de mundo só avança em um
// único contexto de execução por frame.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	world     *mapdata.World
	connected bool
	mu        sync.RWMutex

	pending *util.UniqueQueue[util.GridCoord, protocol.TileUpdate]

	// Callbacks para o App
	OnWelcome  func(w protocol.Welcome)
	OnSnapshot func(worldSize int)
	OnStatus   func(msg string)
}

// NewNetworkClient cria um cliente para o servidor dado, alimentando o mundo.
func NewNetworkClient(url string, world *mapdata.World) *NetworkClient {
	return &NetworkClient{
		url:     url,
		world:   world,
		pending: util.NewUniqueQueue[util.GridCoord, protocol.TileUpdate](),
	}
}

// Connect abre a conexão WebSocket, com retentativas para dar tempo ao
// servidor de subir, e inicia a goroutine de leitura.
func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var err error
	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, maxRetries, c.url)
		c.conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", maxRetries, err)
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

// IsConnected informa se a conexão está ativa.
func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// PendingCount retorna quantas atualizações aguardam o próximo ApplyPending.
func (c *NetworkClient) PendingCount() int {
	return c.pending.Len()
}

// ApplyPending drena a fila de atualizações para o modelo de mundo.
// Chamado uma vez por frame pelo loop principal; retorna quantos tiles mudaram.
func (c *NetworkClient) ApplyPending() int {
	applied := 0
	for {
		_, update, ok := c.pending.Dequeue()
		if !ok {
			break
		}
		if update.Building == nil {
			c.world.RemoveBuilding(update.X, update.Y)
		} else {
			c.world.SetBuilding(update.X, update.Y, update.Building.ToBuilding())
		}
		applied++
	}
	return applied
}

// Close encerra a conexão.
func (c *NetworkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *NetworkClient) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		env, err := protocol.DecodeEnvelope(message)
		if err != nil {
			log.Printf("[Network] Envelope descartado: %v", err)
			continue
		}

		c.handleEnvelope(env)
	}
}

// handleEnvelope roteia uma mensagem pelo campo Type.
// Payloads inválidos são descartados com log; a conexão nunca cai por causa
// de uma mensagem malformada.
func (c *NetworkClient) handleEnvelope(env protocol.Envelope) {
	switch env.Type {
	case protocol.TypeWelcome:
		var w protocol.Welcome
		if err := json.Unmarshal(env.Payload, &w); err != nil {
			log.Printf("[Network] WELCOME inválido: %v", err)
			return
		}
		if w.ProtocolVersion != protocol.Version {
			log.Printf("[Network] AVISO: versão do servidor %q difere da local %q",
				w.ProtocolVersion, protocol.Version)
		}
		log.Printf("[Network] Conectado ao mundo %q (%dx%d)", w.WorldName, w.WorldSize, w.WorldSize)
		if c.OnWelcome != nil {
			c.OnWelcome(w)
		}

	case protocol.TypeSnapshot:
		// O payload é o blob zstd embrulhado como string base64 pelo json.Marshal
		var blob []byte
		if err := json.Unmarshal(env.Payload, &blob); err != nil {
			log.Printf("[Network] Snapshot descartado: %v", err)
			return
		}
		snap, err := protocol.DecodeSnapshot(blob)
		if err != nil {
			log.Printf("[Network] Snapshot descartado: %v", err)
			return
		}
		c.applySnapshot(snap)
		if c.OnSnapshot != nil {
			c.OnSnapshot(snap.WorldSize)
		}

	case protocol.TypeTileUpdate:
		if err := protocol.ValidateTileUpdate(env.Payload); err != nil {
			log.Printf("[Network] %v", err)
			return
		}
		var update protocol.TileUpdate
		if err := json.Unmarshal(env.Payload, &update); err != nil {
			log.Printf("[Network] TILE_UPDATE inválido: %v", err)
			return
		}
		// Fila única por coordenada: duas mudanças no mesmo tile antes do
		// consumo colapsam no estado mais novo
		c.pending.Enqueue(util.NewGridCoord(update.X, update.Y), update)

	case protocol.TypeStatus:
		var status protocol.Status
		if err := json.Unmarshal(env.Payload, &status); err != nil {
			return
		}
		if c.OnStatus != nil {
			c.OnStatus(status.Message)
		}

	default:
		log.Printf("[Network] Tipo de mensagem desconhecido: %q", env.Type)
	}
}

// applySnapshot substitui o mundo inteiro pelo estado do snapshot.
// O Reset descarta atualizações pendentes de antes do snapshot: elas se referem
// ao estado antigo do mundo.
func (c *NetworkClient) applySnapshot(snap *protocol.Snapshot) {
	c.pending.Clear()
	c.world.Reset(snap.WorldSize)
	for _, tile := range snap.Tiles {
		if tile.Building == nil {
			continue
		}
		c.world.SetBuilding(tile.X, tile.Y, tile.Building.ToBuilding())
	}
	log.Printf("[Network] Snapshot aplicado: mundo %dx%d, %d construções",
		snap.WorldSize, snap.WorldSize, len(snap.Tiles))
}
