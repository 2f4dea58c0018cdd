// Package service orchestrates DTO validation and DAO persistence for one
// resource, applying the not-found business checks and output formatting.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/dao"
	"github.com/PrjctQ/qcore/pkg/dto"
	"github.com/samber/lo"
)

// Service composes a DTO and a DAO into the standard CRUD operations. All
// read/write results pass through the DTO's output formatter before returning
// to the caller.
type Service[T any] struct {
	dto *dto.DTO
	dao *dao.DAO[T]
}

// New creates a service from its two collaborators.
func New[T any](d *dto.DTO, dao *dao.DAO[T]) *Service[T] {
	return &Service[T]{dto: d, dao: dao}
}

// DTO returns the service's DTO for callers composing custom behavior.
func (s *Service[T]) DTO() *dto.DTO {
	return s.dto
}

// DAO returns the service's DAO for callers composing custom behavior.
func (s *Service[T]) DAO() *dao.DAO[T] {
	return s.dao
}

// Create validates input, persists the entity and returns the formatted
// record.
func (s *Service[T]) Create(ctx context.Context, input map[string]any) (map[string]any, error) {
	data, err := s.dto.ToCreateDTO(input)
	if err != nil {
		return nil, err
	}
	return s.Insert(ctx, data)
}

// Insert persists already-validated data, bypassing create validation.
// Callers composing custom behavior (hashing a password after validation,
// say) use this after running ToCreateDTO themselves.
func (s *Service[T]) Insert(ctx context.Context, data map[string]any) (map[string]any, error) {
	record, err := decode[T](data)
	if err != nil {
		return nil, err
	}

	if err := s.dao.Insert(ctx, record); err != nil {
		return nil, err
	}
	return s.dto.ToJSON(record), nil
}

// FindByID fetches a record and fails with a 404 API error when it is absent
// or soft-deleted.
func (s *Service[T]) FindByID(ctx context.Context, id any) (map[string]any, error) {
	record, err := s.dao.FindByID(ctx, id, dao.QueryOptions{})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, notFound(id)
	}
	return s.dto.ToJSON(record), nil
}

// FindAll lists records matching the filter, each formatted for output.
func (s *Service[T]) FindAll(ctx context.Context, filter map[string]any, opts dao.QueryOptions) ([]map[string]any, error) {
	records, err := s.dao.FindAll(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r T, _ int) map[string]any {
		return s.dto.ToJSON(&r)
	}), nil
}

// Update validates a partial patch and persists it by identifier.
func (s *Service[T]) Update(ctx context.Context, id any, input map[string]any) (map[string]any, error) {
	patch, err := s.dto.ToUpdateDTO(input)
	if err != nil {
		return nil, err
	}

	record, err := s.dao.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, notFound(id)
	}
	return s.dto.ToJSON(record), nil
}

// Delete removes a record with the DAO's delete semantics (soft when
// supported, hard otherwise).
func (s *Service[T]) Delete(ctx context.Context, id any) (map[string]any, error) {
	record, err := s.dao.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, notFound(id)
	}
	return s.dto.ToJSON(record), nil
}

func notFound(id any) *apierror.APIError {
	return apierror.NewNotFound("id", fmt.Sprintf("Entity not found for ID: %v", id))
}

// decode converts validated map data into the entity type through its JSON
// field mapping.
func decode[T any](data map[string]any) (*T, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("service: encode input: %w", err)
	}

	record := new(T)
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("service: decode input: %w", err)
	}
	return record, nil
}
