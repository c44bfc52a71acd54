package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSolarPackageRepository implements catalog.SolarPackageRepository using GORM.
// Header and line-item writes for one package always share a transaction.
type GormSolarPackageRepository struct {
	db *gorm.DB
}

// NewGormSolarPackageRepository creates a new GormSolarPackageRepository
func NewGormSolarPackageRepository(db *gorm.DB) *GormSolarPackageRepository {
	return &GormSolarPackageRepository{db: db}
}

// FindByID finds a package by its ID
func (r *GormSolarPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SolarPackage, error) {
	var model models.SolarPackageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load solar package: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists packages ordered by min_bill, created_at, id
func (r *GormSolarPackageRepository) FindAll(ctx context.Context, status *catalog.PackageStatus) ([]catalog.SolarPackage, error) {
	query := r.db.WithContext(ctx).Model(&models.SolarPackageModel{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return r.find(query)
}

// FindCandidatesForBill lists active packages whose bill band contains bill
func (r *GormSolarPackageRepository) FindCandidatesForBill(ctx context.Context, bill decimal.Decimal) ([]catalog.SolarPackage, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SolarPackageModel{}).
		Where("status = ? AND min_bill <= ? AND max_bill >= ?", catalog.PackageStatusActive, bill, bill)
	return r.find(query)
}

func (r *GormSolarPackageRepository) find(query *gorm.DB) ([]catalog.SolarPackage, error) {
	var rows []models.SolarPackageModel
	if err := query.Order("min_bill ASC").Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list solar packages: %w", err)
	}
	packages := make([]catalog.SolarPackage, len(rows))
	for i := range rows {
		packages[i] = *rows[i].ToDomain()
	}
	return packages, nil
}

// ExistsByID checks whether a package exists
func (r *GormSolarPackageRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return packageExists(r.db.WithContext(ctx), id)
}

// Create inserts the package header, then its line items, in one transaction
func (r *GormSolarPackageRepository) Create(ctx context.Context, pkg *catalog.SolarPackage, items []catalog.PackageLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.SolarPackageModelFromDomain(pkg)).Error; err != nil {
			return fmt.Errorf("failed to create solar package: %w", err)
		}
		return insertLineItems(tx, items)
	})
}

// Update overwrites every scalar field of the package. Line items are left alone.
func (r *GormSolarPackageRepository) Update(ctx context.Context, pkg *catalog.SolarPackage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateHeader(tx, pkg)
	})
}

// UpdateWithLineItems overwrites the package and replaces its line items in one transaction
func (r *GormSolarPackageRepository) UpdateWithLineItems(ctx context.Context, pkg *catalog.SolarPackage, items []catalog.PackageLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateHeader(tx, pkg); err != nil {
			return err
		}
		if err := deleteLineItems(tx, pkg.ID); err != nil {
			return err
		}
		return insertLineItems(tx, items)
	})
}

// Delete removes the line items and then the package header
func (r *GormSolarPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteLineItems(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&models.SolarPackageModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete solar package: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SetLineItems replaces every line item of an existing package
func (r *GormSolarPackageRepository) SetLineItems(ctx context.Context, packageID uuid.UUID, items []catalog.PackageLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := packageExists(tx, packageID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		if err := deleteLineItems(tx, packageID); err != nil {
			return err
		}
		return insertLineItems(tx, items)
	})
}

// FindLineItemsWithProductInfo joins line items with their products in insertion order.
// The inner join drops items whose product was deleted.
func (r *GormSolarPackageRepository) FindLineItemsWithProductInfo(ctx context.Context, packageID uuid.UUID) ([]catalog.LineItemWithProduct, error) {
	var rows []models.LineItemProductRow
	err := r.db.WithContext(ctx).
		Table("package_line_items AS li").
		Select("li.id, li.package_id, li.product_id, li.quantity, li.position, p.name AS product_name, p.unit_price, p.image_url").
		Joins("JOIN products AS p ON p.id = li.product_id").
		Where("li.package_id = ?", packageID).
		Order("li.position ASC").
		Order("li.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load package line items: %w", err)
	}

	items := make([]catalog.LineItemWithProduct, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

func updateHeader(tx *gorm.DB, pkg *catalog.SolarPackage) error {
	model := models.SolarPackageModelFromDomain(pkg)
	result := tx.Model(model).Select("*").Omit("id", "created_at").Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update solar package: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func packageExists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&models.SolarPackageModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check solar package: %w", err)
	}
	return count > 0, nil
}

func deleteLineItems(tx *gorm.DB, packageID uuid.UUID) error {
	if err := tx.Where("package_id = ?", packageID).Delete(&models.PackageLineItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete package line items: %w", err)
	}
	return nil
}

func insertLineItems(tx *gorm.DB, items []catalog.PackageLineItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.PackageLineItemModel, len(items))
	for i, item := range items {
		rows[i] = models.PackageLineItemModelFromDomain(item)
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert package line items: %w", err)
	}
	return nil
}

// Ensure GormSolarPackageRepository implements catalog.SolarPackageRepository
var _ catalog.SolarPackageRepository = (*GormSolarPackageRepository)(nil)
