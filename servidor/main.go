package main

import (
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"CityVision/shared/protocol"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub gerencia as conexões WebSocket ativas.
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 4096),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case client, ok := <-h.register:
			if !ok {
				return
			}
			h.mu.Lock()
			h.clients[client] = &sync.Mutex{}
			h.mu.Unlock()
			log.Printf("Cliente registrado: %s", client.RemoteAddr())
		case client, ok := <-h.unregister:
			if !ok {
				return
			}
			h.mu.Lock()
			if lock, ok := h.clients[client]; ok {
				lock.Lock()
				delete(h.clients, client)
				client.Close()
				lock.Unlock()
				log.Printf("Cliente desregistrado: %s", client.RemoteAddr())
			}
			h.mu.Unlock()
		case message, ok := <-h.broadcast:
			if !ok {
				return
			}
			h.mu.Lock()
			type clientEntry struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			var targets []clientEntry
			for c, l := range h.clients {
				targets = append(targets, clientEntry{c, l})
			}
			h.mu.Unlock()

			for _, target := range targets {
				target.lock.Lock()
				err := target.conn.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					log.Printf("Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
					target.conn.Close()
					h.mu.Lock()
					delete(h.clients, target.conn)
					h.mu.Unlock()
				}
				target.lock.Unlock()
			}
		}
	}
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez.
func (h *Hub) WriteSafe(conn *websocket.Conn, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return websocket.ErrCloseSent
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// safeSend envia para o canal de broadcast protegendo contra canal fechado.
func (h *Hub) safeSend(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Aviso: falha ao enviar broadcast: %v", r)
		}
	}()
	h.broadcast <- data
}

// Broadcast serializa e difunde uma mensagem do protocolo para todos os clientes.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("[Hub] Erro ao serializar %s: %v", msgType, err)
		return
	}
	h.safeSend(data)
}

// Send serializa e envia uma mensagem do protocolo para um único cliente.
func (h *Hub) Send(conn *websocket.Conn, msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("[Hub] Erro ao serializar %s: %v", msgType, err)
		return
	}
	if err := h.WriteSafe(conn, data); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}

func main() {
	// Working directory ancorado ao executável para caminhos relativos (tmp/)
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	worldSize := flag.Int("size", 32, "Lado do grid da cidade demo")
	seed := flag.Int64("seed", 42, "Semente da geração da cidade")
	tickMs := flag.Int("tick", 2000, "Intervalo da simulação em milissegundos")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Log em console e arquivo simultaneamente
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║      CityVision SERVER v0.1.0        ║")
	log.Println("╚══════════════════════════════════════╝")

	hub := newHub()
	go hub.run()

	sim := NewCitySim(*worldSize, *seed)

	// Loop da simulação: cada passo que muda um lote vira broadcast
	go func() {
		ticker := time.NewTicker(time.Duration(*tickMs) * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if update := sim.Step(); update != nil {
				hub.Broadcast(protocol.TypeTileUpdate, update)
			}
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, sim, w, r)
	})

	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}

	addr := "127.0.0.1:" + port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERRO CRÍTICO: não foi possível abrir a porta %s.", port)
		log.Printf("Provavelmente há outra instância do servidor rodando.")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	ln.Close() // Fecha para o ListenAndServe reabrir

	log.Printf("Servidor CityVision iniciado em %s (mundo %dx%d)", addr, *worldSize, *worldSize)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

// serveWs maneja requisições websocket do peer.
func serveWs(hub *Hub, sim *CitySim, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro no upgrade do WebSocket: %v", err)
		return
	}
	hub.register <- conn

	// Handshake: boas-vindas e snapshot completo do mundo
	hub.Send(conn, protocol.TypeWelcome, protocol.Welcome{
		ProtocolVersion: protocol.Version,
		WorldName:       sim.Name,
		WorldSize:       sim.WorldSize(),
	})

	blob, err := protocol.EncodeSnapshot(sim.Snapshot())
	if err != nil {
		log.Printf("Erro ao montar snapshot: %v", err)
	} else {
		hub.Send(conn, protocol.TypeSnapshot, blob)
		log.Printf("Snapshot enviado para %s (%d bytes comprimidos)", conn.RemoteAddr(), len(blob))
	}

	hub.Send(conn, protocol.TypeStatus, protocol.Status{
		Message: "Conectado ao Servidor CityVision",
	})

	// Loop de leitura: o protocolo atual não tem mensagens do cliente; lemos
	// apenas para detectar a desconexão
	go func() {
		defer func() {
			hub.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
