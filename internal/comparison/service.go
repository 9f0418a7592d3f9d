package comparison

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"electrochem-data-api/internal/dataset"
	"electrochem-data-api/internal/users"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired  = errors.New("Title is required")
	ErrTooFewDatasets = errors.New("At least two datasets are required for comparison")
)

// DatasetMissingError reports a comparison input that references no
// existing dataset.
type DatasetMissingError struct {
	ID uint
}

func (e *DatasetMissingError) Error() string {
	return fmt.Sprintf("Dataset %d not found", e.ID)
}

// DatasetAccessError reports a referenced dataset the caller may not read.
type DatasetAccessError struct {
	ID uint
}

func (e *DatasetAccessError) Error() string {
	return fmt.Sprintf("You don't have access to dataset %d", e.ID)
}

type ComparisonService struct {
	DB       *gorm.DB
	Datasets dataset.DatasetServicePort
}

func newComparisonTag() string {
	u := uuid.New()
	return "CMP-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// simulatedResults is the summary stored with every new comparison until
// a real analysis job replaces it.
func simulatedResults() []byte {
	payload := map[string]interface{}{
		"summary":     "Comparison between multiple datasets",
		"correlation": 0.87,
		"peak_differences": map[string][]float64{
			"anodic":   {0.02, 0.05, 0.03},
			"cathodic": {0.04, 0.02, 0.01},
		},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

// CreateComparison validates that every referenced dataset exists and is
// readable by the caller, then stores the comparison with simulated
// results.
func (cs *ComparisonService) CreateComparison(p dataset.Principal, input CreateComparisonInput) (DatasetComparison, error) {
	if strings.TrimSpace(input.Title) == "" {
		return DatasetComparison{}, ErrTitleRequired
	}
	if len(input.DatasetIDs) < 2 {
		return DatasetComparison{}, ErrTooFewDatasets
	}

	ids := make(pq.StringArray, 0, len(input.DatasetIDs))
	for _, id := range input.DatasetIDs {
		f, err := cs.Datasets.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return DatasetComparison{}, &DatasetMissingError{ID: id}
			}
			return DatasetComparison{}, err
		}

		vis, err := cs.Datasets.VisibilityFor(f)
		if err != nil {
			return DatasetComparison{}, err
		}
		if !dataset.EvaluateAccess(p, vis).CanRead() {
			return DatasetComparison{}, &DatasetAccessError{ID: id}
		}

		ids = append(ids, strconv.FormatUint(uint64(id), 10))
	}

	comp := DatasetComparison{
		ComparisonTag: newComparisonTag(),
		Title:         input.Title,
		Description:   input.Description,
		CreatedBy:     p.UserID,
		IsPublic:      input.IsPublic,
		DatasetIDs:    ids,
		Results:       simulatedResults(),
	}
	if err := cs.DB.Create(&comp).Error; err != nil {
		return DatasetComparison{}, err
	}
	return comp, nil
}

func (cs *ComparisonService) GetByTag(tag string) (DatasetComparison, error) {
	var comp DatasetComparison
	if err := cs.DB.Where("comparison_tag = ?", tag).First(&comp).Error; err != nil {
		return DatasetComparison{}, err
	}
	return comp, nil
}

// ListComparisons pages through the user's own plus public comparisons,
// newest first.
func (cs *ComparisonService) ListComparisons(userID uint, page, pageSize int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var count int64
	err := cs.DB.Model(&DatasetComparison{}).
		Where("created_by = ? OR is_public = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return Page{}, err
	}

	var comps []DatasetComparison
	err = cs.DB.
		Where("created_by = ? OR is_public = ?", userID, true).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&comps).Error
	if err != nil {
		return Page{}, err
	}

	results := make([]ComparisonSummary, 0, len(comps))
	for _, comp := range comps {
		summary := ComparisonSummary{
			ID:           comp.ComparisonTag,
			Title:        comp.Title,
			Description:  comp.Description,
			CreatedAt:    comp.CreatedAt,
			DatasetCount: len(comp.DatasetIDs),
			IsPublic:     comp.IsPublic,
		}
		var creator users.User
		if err := cs.DB.First(&creator, comp.CreatedBy).Error; err == nil {
			summary.CreatedBy = creator.Ref()
		}
		results = append(results, summary)
	}

	numPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}

	return Page{
		Count:       count,
		NumPages:    numPages,
		CurrentPage: page,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
		Results:     results,
	}, nil
}

// CanView: creator, public, or readable access to at least one referenced
// dataset through its project.
func (cs *ComparisonService) CanView(p dataset.Principal, comp DatasetComparison) (bool, error) {
	if comp.IsPublic {
		return true, nil
	}
	if p.Authenticated && (p.IsStaff || p.UserID == comp.CreatedBy) {
		return true, nil
	}

	for _, raw := range comp.DatasetIDs {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		f, err := cs.Datasets.GetByID(uint(id))
		if err != nil {
			continue
		}
		vis, err := cs.Datasets.VisibilityFor(f)
		if err != nil {
			return false, err
		}
		if dataset.EvaluateAccess(p, vis).CanRead() {
			return true, nil
		}
	}
	return false, nil
}

// GetDetail assembles the full response including per-dataset metadata.
// Datasets that no longer resolve are reported in place, not dropped.
func (cs *ComparisonService) GetDetail(comp DatasetComparison) (ComparisonDetail, error) {
	detail := ComparisonDetail{
		ID:          comp.ComparisonTag,
		Title:       comp.Title,
		Description: comp.Description,
		CreatedAt:   comp.CreatedAt,
		UpdatedAt:   comp.UpdatedAt,
		IsPublic:    comp.IsPublic,
		Datasets:    []ComparedDataset{},
	}

	var creator users.User
	if err := cs.DB.First(&creator, comp.CreatedBy).Error; err == nil {
		detail.CreatedBy = creator.Ref()
	}

	for _, raw := range comp.DatasetIDs {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			detail.Datasets = append(detail.Datasets, ComparedDataset{FileName: "Unknown dataset", Error: "Dataset not found"})
			continue
		}
		f, err := cs.Datasets.GetByID(uint(id))
		if err != nil {
			detail.Datasets = append(detail.Datasets, ComparedDataset{ID: uint(id), FileName: "Unknown dataset", Error: "Dataset not found"})
			continue
		}
		detail.Datasets = append(detail.Datasets, ComparedDataset{
			ID:         f.ID,
			FileName:   f.FileName,
			DataTypeID: f.DataTypeID,
			Version:    f.Version,
			UploadedAt: f.UploadedAt,
		})
	}

	if len(comp.Results) > 0 {
		var results interface{}
		if err := json.Unmarshal(comp.Results, &results); err != nil {
			return ComparisonDetail{}, err
		}
		detail.Results = results
	}

	return detail, nil
}
