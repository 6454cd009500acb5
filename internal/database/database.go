package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"propsearch/internal/models"
)

var ErrMissingID = errors.New("record has no id")

type Database struct {
	db *gorm.DB
}

// PropertyRow is the stored form of a models.PropertyRecord.
type PropertyRow struct {
	ID           string `gorm:"primaryKey"`
	Title        string
	Description  string
	Address      string
	City         string `gorm:"index"`
	Neighborhood string
	PropertyType string
	SaleType     string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *float64
	SquareFeet   *int
	Features     []string   `gorm:"serializer:json"`
	ListedAt     *time.Time `gorm:"column:created_at"`
	Latitude     *float64   `gorm:"index:idx_properties_coordinates"`
	Longitude    *float64   `gorm:"index:idx_properties_coordinates"`
}

func (PropertyRow) TableName() string {
	return "properties"
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return open(dbPath)
}

// NewTestDB opens a private in-memory database.
func NewTestDB() (*Database, error) {
	return open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

func open(dsn string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Database{db: db}, nil
}

// GetAllProperties returns stored records ordered by id. An empty city
// returns every record; otherwise the city must match ignoring case.
func (d *Database) GetAllProperties(ctx context.Context, city string) ([]models.PropertyRecord, error) {
	var rows []PropertyRow
	err := d.db.WithContext(ctx).
		Where("? = '' OR LOWER(city) = LOWER(?)", city, city).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}

	records := make([]models.PropertyRecord, len(rows))
	for i, row := range rows {
		records[i] = row.Record()
	}
	return records, nil
}

// UpsertProperties inserts records, replacing any stored record with the
// same id. Either all records are written or none are.
func (d *Database) UpsertProperties(ctx context.Context, records []models.PropertyRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]PropertyRow, len(records))
	for i, record := range records {
		if record.ID == "" {
			return fmt.Errorf("failed to upsert record %d: %w", i, ErrMissingID)
		}
		rows[i] = NewPropertyRow(record)
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(rows, 100).Error
		if err != nil {
			return fmt.Errorf("failed to upsert properties batch: %w", err)
		}
		return nil
	})
}

// CountProperties returns the number of stored records.
func (d *Database) CountProperties(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&PropertyRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewPropertyRow(p models.PropertyRecord) PropertyRow {
	return PropertyRow{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		Neighborhood: p.Neighborhood,
		PropertyType: p.PropertyType,
		SaleType:     p.SaleType,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		Features:     p.Features,
		ListedAt:     p.CreatedAt,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
	}
}

func (r PropertyRow) Record() models.PropertyRecord {
	record := models.PropertyRecord{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		Neighborhood: r.Neighborhood,
		PropertyType: r.PropertyType,
		SaleType:     r.SaleType,
		Price:        r.Price,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		SquareFeet:   r.SquareFeet,
		Features:     r.Features,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
	}
	if r.ListedAt != nil {
		listed := r.ListedAt.UTC()
		record.CreatedAt = &listed
	}
	return record
}
