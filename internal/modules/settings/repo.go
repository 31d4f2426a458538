package settings

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// GetMany returns the raw values of the keys that exist.
func (r *Repo) GetMany(ctx context.Context, keys ...string) (map[string]datatypes.JSON, error) {
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = k
	}

	// key is reserved in MySQL; let the dialect quote it
	var rows []Setting
	if err := r.db.WithContext(ctx).
		Where(clause.IN{Column: clause.Column{Name: "key"}, Values: values}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]datatypes.JSON, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *Repo) Upsert(ctx context.Context, key string, value datatypes.JSON, now time.Time) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value, UpdatedAt: now}).Error
}
