package repository

import (
	"context"
	"errors"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
)

// PackageRepository handles tourist package data access
type PackageRepository struct {
	db database.Database
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db database.Database) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create creates a new tourist package
func (r *PackageRepository) Create(ctx context.Context, pkg *model.TouristPackage) error {
	query := `
		CREATE tourist_package CONTENT {
			name: $name,
			description: $description,
			price: $price,
			promoted: $promoted,
			destinations: $destinations,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":         pkg.Name,
		"description":  pkg.Description,
		"price":        pkg.Price,
		"promoted":     pkg.Promoted,
		"destinations": pkg.DestinationIDs,
		"created_by":   pkg.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	pkg.ID = created.ID
	pkg.CreatedOn = created.CreatedOn
	pkg.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a tourist package by ID
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*model.TouristPackage, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parsePackageResult(result)
}

// List retrieves tourist packages, promoted ones first
func (r *PackageRepository) List(ctx context.Context, promotedOnly bool, limit, offset int) ([]*model.TouristPackage, error) {
	query := `
		SELECT * FROM tourist_package
		ORDER BY promoted DESC, created_on DESC
		LIMIT $limit START $offset
	`
	if promotedOnly {
		query = `
			SELECT * FROM tourist_package
			WHERE promoted = true
			ORDER BY created_on DESC
			LIMIT $limit START $offset
		`
	}

	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parsePackagesResult(result)
}

// Update updates a tourist package
func (r *PackageRepository) Update(ctx context.Context, pkg *model.TouristPackage) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = $description,
			price = $price,
			promoted = $promoted,
			destinations = $destinations,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":           pkg.ID,
		"name":         pkg.Name,
		"description":  pkg.Description,
		"price":        pkg.Price,
		"promoted":     pkg.Promoted,
		"destinations": pkg.DestinationIDs,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetPromoted toggles the promoted flag on a package
func (r *PackageRepository) SetPromoted(ctx context.Context, id string, promoted bool) error {
	query := `UPDATE type::record($id) SET promoted = $promoted, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":       id,
		"promoted": promoted,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes a tourist package
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// Helper functions

func (r *PackageRepository) parsePackageResult(result interface{}) (*model.TouristPackage, error) {
	if result == nil {
		return nil, nil
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, nil
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	pkg := &model.TouristPackage{
		ID:             convertSurrealID(data["id"]),
		Name:           getString(data, "name"),
		Description:    getString(data, "description"),
		Price:          getInt64(data, "price"),
		Promoted:       getBool(data, "promoted"),
		DestinationIDs: getStringSlice(data, "destinations"),
	}

	if createdBy, ok := data["created_by"]; ok {
		pkg.CreatedBy = convertSurrealID(createdBy)
	}
	if t := getTime(data, "created_on"); t != nil {
		pkg.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		pkg.UpdatedOn = *t
	}

	return pkg, nil
}

func (r *PackageRepository) parsePackagesResult(result []interface{}) ([]*model.TouristPackage, error) {
	packages := make([]*model.TouristPackage, 0)

	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			pkg, err := r.parsePackageResult(item)
			if err != nil || pkg == nil {
				continue
			}
			packages = append(packages, pkg)
		}
	}

	return packages, nil
}
