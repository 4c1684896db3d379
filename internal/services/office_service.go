package services

import (
	"context"
	"fmt"
	"strings"

	"socialchat/internal/models"
	"socialchat/internal/repositories"
)

type CreateOfficeInput struct {
	Name     string
	Code     string
	ParentID *uint
}

type OfficeService interface {
	Create(ctx context.Context, in CreateOfficeInput) (*models.Office, error)
	Children(ctx context.Context, id uint) ([]models.Office, error)
	// Subtree walks breadth-first below id, excluding id itself.
	Subtree(ctx context.Context, id uint) ([]models.Office, error)
	// Ancestors returns the path from the root down to id's parent.
	Ancestors(ctx context.Context, id uint) ([]models.Office, error)
}

type officeService struct {
	repo repositories.OfficeRepository
}

func NewOfficeService(repo repositories.OfficeRepository) OfficeService {
	return &officeService{repo: repo}
}

func (s *officeService) Create(ctx context.Context, in CreateOfficeInput) (*models.Office, error) {
	o := &models.Office{Name: strings.TrimSpace(in.Name), Code: strings.TrimSpace(in.Code), ParentID: in.ParentID}
	if o.Name == "" || o.Code == "" {
		return nil, fmt.Errorf("%w: name and code are required", ErrInvalidInput)
	}
	if in.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, fmt.Errorf("parent office: %w", err)
		}
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *officeService) Children(ctx context.Context, id uint) ([]models.Office, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Children(ctx, id)
}

func (s *officeService) Subtree(ctx context.Context, id uint) ([]models.Office, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	visited := map[uint]bool{id: true}
	queue := []uint{id}
	var out []models.Office
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		kids, err := s.repo.Children(ctx, cur)
		if err != nil {
			return nil, err
		}
		for _, k := range kids {
			if visited[k.ID] {
				continue
			}
			visited[k.ID] = true
			out = append(out, k)
			queue = append(queue, k.ID)
		}
	}
	return out, nil
}

func (s *officeService) Ancestors(ctx context.Context, id uint) ([]models.Office, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visited := map[uint]bool{o.ID: true}
	var path []models.Office
	for o.ParentID != nil {
		if visited[*o.ParentID] {
			break
		}
		parent, err := s.repo.GetByID(ctx, *o.ParentID)
		if err != nil {
			return nil, err
		}
		visited[parent.ID] = true
		path = append(path, *parent)
		o = parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
