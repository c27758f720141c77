package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.MRN == "" {
		p.MRN = generateMRN()
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// MRN is immutable once assigned.
	p.MRN = current.MRN
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, error) {
	if strings.TrimSpace(name) == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.SearchByName(ctx, name, limit, offset)
}

func generateMRN() string {
	return "MRN-" + strings.ToUpper(uuid.New().String()[:8])
}
