package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/persistence/model"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{db: db}
}

// Create maps a lost race on the owner/name index to the same error the use
// case returns for a duplicate name.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	err := r.db.WithContext(ctx).Create(model.CategoryFromEntity(category)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists",
			domainerror.ErrCategoryNameExists,
		)
	}
	return err
}

// FindByOwner orders the categories by name.
func (r *categoryRepository) FindByOwner(ctx context.Context, ownerType entity.OwnerType, ownerID uuid.UUID) ([]*entity.Category, error) {
	return r.find(r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("name_key ASC"))
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *categoryRepository) ExistsByNameAndOwner(ctx context.Context, name string, ownerType entity.OwnerType, ownerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("name_key = ? AND owner_type = ? AND owner_id = ?", model.CategoryNameKey(name), ownerType, ownerID).
		Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) find(query *gorm.DB) ([]*entity.Category, error) {
	var rows []model.CategoryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]*entity.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].ToEntity())
	}
	return categories, nil
}
