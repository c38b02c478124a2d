package dumpstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workforceintel/internal/hypothesis"
)

// ErrNotFound reports a missing dump id.
var ErrNotFound = errors.New("dumpstore: dump not found")

// Dump is one persisted scrape result: the raw signal set for a company plus
// its optional financial snapshot, stored as a JSON payload. Analysis results
// are never stored here.
type Dump struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"index"`
	DumpType    string    `json:"dump_type"`
	RecordCount int       `json:"record_count"`
	Payload     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type payload struct {
	Signals   []hypothesis.RawSignal        `json:"signals"`
	Financial *hypothesis.FinancialSnapshot `json:"financial_snapshot,omitempty"`
}

// Store persists dumps in a local sqlite database.
type Store struct {
	db *gorm.DB
}

// Open connects to (or creates) the sqlite database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("dumpstore: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Dump{}); err != nil {
		return nil, fmt.Errorf("dumpstore: migrate: %w", err)
	}
	log.Printf("Dump store ready at %s", path)
	return &Store{db: db}, nil
}

// Save persists a new dump and returns its metadata.
func (s *Store) Save(companyName, dumpType string, signals []hypothesis.RawSignal, financial *hypothesis.FinancialSnapshot) (Dump, error) {
	blob, err := json.Marshal(payload{Signals: signals, Financial: financial})
	if err != nil {
		return Dump{}, fmt.Errorf("dumpstore: marshal payload: %w", err)
	}
	dump := Dump{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		DumpType:    dumpType,
		RecordCount: len(signals),
		Payload:     string(blob),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&dump).Error; err != nil {
		return Dump{}, fmt.Errorf("dumpstore: save: %w", err)
	}
	return dump, nil
}

// List returns dump metadata, newest first.
func (s *Store) List() ([]Dump, error) {
	var dumps []Dump
	err := s.db.Order("created_at DESC").Find(&dumps).Error
	if err != nil {
		return nil, fmt.Errorf("dumpstore: list: %w", err)
	}
	return dumps, nil
}

// Get returns the metadata for one dump.
func (s *Store) Get(id string) (Dump, error) {
	var dump Dump
	err := s.db.First(&dump, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Dump{}, ErrNotFound
	}
	if err != nil {
		return Dump{}, fmt.Errorf("dumpstore: get %s: %w", id, err)
	}
	return dump, nil
}

// Load resolves a dump id into the raw signal set and snapshot it holds.
func (s *Store) Load(id string) ([]hypothesis.RawSignal, *hypothesis.FinancialSnapshot, error) {
	dump, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	var p payload
	if err := json.Unmarshal([]byte(dump.Payload), &p); err != nil {
		return nil, nil, fmt.Errorf("dumpstore: decode payload %s: %w", id, err)
	}
	return p.Signals, p.Financial, nil
}

// Delete removes a dump.
func (s *Store) Delete(id string) error {
	result := s.db.Delete(&Dump{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("dumpstore: delete %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
