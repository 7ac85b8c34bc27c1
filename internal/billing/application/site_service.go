package application

import (
	"context"
	"errors"

	billing "aidat-mock/internal/billing/domain"
)

// SiteService serves the static site registry.
type SiteService struct {
	site billing.Site
}

// NewSiteService constructs a service over a seeded site.
func NewSiteService(site billing.Site) (*SiteService, error) {
	if site.ID == "" {
		return nil, errors.New("site service: empty site id")
	}
	return &SiteService{site: site.Clone()}, nil
}

// Get returns the site when the id matches the registry.
func (s *SiteService) Get(ctx context.Context, siteID string) (billing.Site, error) {
	_ = ctx
	if siteID != s.site.ID {
		return billing.Site{}, billing.ErrSiteNotFound
	}
	return s.site.Clone(), nil
}

// Units returns the unit registry every period run allocates across.
func (s *SiteService) Units() []billing.Unit {
	return append([]billing.Unit(nil), s.site.Units...)
}
