package library

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conceptual-Machines/sightread-api/internal/database"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
)

// PostgresStore keeps blobs in the score_blobs table.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgresStore connects to databaseURL and migrates the blob table.
func OpenPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := database.Connect(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an already migrated connection.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB exposes the connection for health checks.
func (p *PostgresStore) DB() *gorm.DB {
	return p.db
}

func (p *PostgresStore) Get(ctx context.Context, owner, name string) ([]byte, error) {
	var rec models.BlobRecord
	err := p.db.WithContext(ctx).
		Where("owner = ? AND name = ?", owner, name).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (p *PostgresStore) Put(ctx context.Context, owner, name string, data []byte) error {
	rec := models.BlobRecord{Owner: owner, Name: name, Data: data}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}

func (p *PostgresStore) Delete(ctx context.Context, owner, name string) error {
	return p.db.WithContext(ctx).
		Where("owner = ? AND name = ?", owner, name).
		Delete(&models.BlobRecord{}).Error
}

// Ping checks that the database is reachable.
func (p *PostgresStore) Ping(context.Context) error {
	return database.Ping(p.db)
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
