package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do CityVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Servidor de simulação (usado pelo Cliente)
	ServerURL string `json:"server_url"`

	// Catálogo de recursos 3D
	CatalogPath string `json:"catalog_path"`

	// Banco local do visualizador (bookmarks e anotações)
	ViewerDBPath string `json:"viewer_db_path"`

	// Destaque de seleção (RGB 0-255)
	HoverColor  [3]uint8 `json:"hover_color"`
	ActiveColor [3]uint8 `json:"active_color"`

	// Câmera
	CameraSpeed       float32 `json:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "CityVision",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL: "ws://127.0.0.1:8080/ws",

		CatalogPath:  "assets/config/catalog.yaml",
		ViewerDBPath: filepath.Join("saves", "viewer.db"),

		HoverColor:  [3]uint8{255, 255, 0}, // amarelo
		ActiveColor: [3]uint8{255, 64, 64}, // vermelho

		CameraSpeed:       10.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         5.0,

		ShowDebugInfo: true,
		ShowGrid:      false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
