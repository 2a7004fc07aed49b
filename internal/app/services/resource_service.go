package services

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var defaultCatalog []byte

const (
	generalProblemType = "general"
	crisisCatalogKey   = "crisis"
)

// ResourceCatalog maps a problem type to its resource set. The "crisis" entry
// holds the hotline list added for high and crisis risk levels.
type ResourceCatalog map[string]models.ResourceSet

// LoadResourceCatalog parses a YAML catalog; nil data means the built-in one
func LoadResourceCatalog(data []byte) (ResourceCatalog, error) {
	if data == nil {
		data = defaultCatalog
	}
	var catalog ResourceCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse resource catalog: %w", err)
	}
	if _, ok := catalog[generalProblemType]; !ok {
		return nil, fmt.Errorf("resource catalog has no %q entry", generalProblemType)
	}
	return catalog, nil
}

// ResourceService suggests self-help resources
type ResourceService struct {
	catalog  ResourceCatalog
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(catalog ResourceCatalog, activity ActivityRecorder, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		catalog:  catalog,
		activity: activity,
		logger:   logger,
	}
}

// Suggest returns the resources for problemType (general when unknown), plus
// crisis hotlines for elevated risk levels.
func (s *ResourceService) Suggest(ctx context.Context, req dto.ResourceRequest) models.ResourceSet {
	base, ok := s.catalog[req.ProblemType]
	if !ok || req.ProblemType == crisisCatalogKey {
		base = s.catalog[generalProblemType]
	}

	out := make(models.ResourceSet, len(base)+1)
	for kind, items := range base {
		out[kind] = items
	}
	if req.RiskLevel.Elevated() {
		out[crisisCatalogKey] = s.catalog[crisisCatalogKey][crisisCatalogKey]
	}

	if req.UserID != "" {
		recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivityResourceAccess, map[string]interface{}{
			"problemType": req.ProblemType,
			"riskLevel":   req.RiskLevel,
		})
	}
	return out
}
