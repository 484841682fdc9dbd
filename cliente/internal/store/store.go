package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Bookmark é uma posição de câmera salva pelo usuário.
type Bookmark struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	X, Y, Z   float32
	Zoom      float32
	AngleY    float32
	AngleX    float32
	UpdatedAt time.Time
}

// Annotation é uma nota livre presa a um tile do grid.
type Annotation struct {
	ID        uint `gorm:"primaryKey"`
	TileX     int  `gorm:"index:idx_tile"`
	TileY     int  `gorm:"index:idx_tile"`
	Text      string
	UpdatedAt time.Time
}

// ViewerStore guarda o estado local do visualizador (bookmarks e anotações)
// em um banco SQLite ao lado dos saves.
type ViewerStore struct {
	db *gorm.DB
}

// Open abre (ou cria) o banco do visualizador e roda as migrações.
func Open(dbPath string) (*ViewerStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	// Logger silencioso: o banco é acessório, não pode poluir o log do viewer
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&Bookmark{}, &Annotation{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	log.Printf("[Store] Banco do visualizador aberto: %s", dbPath)
	return &ViewerStore{db: db}, nil
}

// SaveBookmark grava ou atualiza um bookmark pelo nome (upsert).
func (s *ViewerStore) SaveBookmark(b *Bookmark) error {
	var existing Bookmark
	err := s.db.First(&existing, "name = ?", b.Name).Error
	if err == nil {
		b.ID = existing.ID
	}
	return s.db.Save(b).Error
}

// Bookmark busca um bookmark pelo nome.
func (s *ViewerStore) Bookmark(name string) (*Bookmark, error) {
	var b Bookmark
	if err := s.db.First(&b, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Bookmarks lista todos os bookmarks salvos, mais recentes primeiro.
func (s *ViewerStore) Bookmarks() ([]Bookmark, error) {
	var out []Bookmark
	err := s.db.Order("updated_at desc").Find(&out).Error
	return out, err
}

// DeleteBookmark remove um bookmark pelo nome.
func (s *ViewerStore) DeleteBookmark(name string) error {
	return s.db.Delete(&Bookmark{}, "name = ?", name).Error
}

// Annotate grava uma anotação em um tile. Um tile pode acumular várias notas.
func (s *ViewerStore) Annotate(tileX, tileY int, text string) error {
	return s.db.Create(&Annotation{TileX: tileX, TileY: tileY, Text: text}).Error
}

// AnnotationsAt lista as anotações de um tile, mais antigas primeiro.
func (s *ViewerStore) AnnotationsAt(tileX, tileY int) ([]Annotation, error) {
	var out []Annotation
	err := s.db.Order("id asc").Find(&out, "tile_x = ? AND tile_y = ?", tileX, tileY).Error
	return out, err
}

// ClearAnnotations remove todas as anotações de um tile.
func (s *ViewerStore) ClearAnnotations(tileX, tileY int) error {
	return s.db.Delete(&Annotation{}, "tile_x = ? AND tile_y = ?", tileX, tileY).Error
}

// Close fecha a conexão com o banco.
func (s *ViewerStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
