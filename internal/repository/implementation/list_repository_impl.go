package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"axon-assistant/internal/mapper"
	"axon-assistant/internal/model"
	"axon-assistant/internal/repository/contract"
	"axon-assistant/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StoredListMapper
}

func NewListRepository(db *gorm.DB) contract.ListRepository {
	return &ListRepositoryImpl{
		db:     db,
		mapper: mapper.NewStoredListMapper(),
	}
}

func (r *ListRepositoryImpl) Load(ctx context.Context, key string) (json.RawMessage, error) {
	var m model.StoredList
	query := specification.ByKey{Key: key}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.mapper.ToRaw(nil), nil
		}
		return nil, err
	}
	return r.mapper.ToRaw(&m), nil
}

// Prepend inserts the row or concatenates item in front of the stored
// array in a single upsert; Postgres serializes writers on the row.
func (r *ListRepositoryImpl) Prepend(ctx context.Context, key string, item json.RawMessage) error {
	m := r.mapper.ToSingletonModel(key, item)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"items":      gorm.Expr("EXCLUDED.items || stored_lists.items"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(m).Error
}
