package comparison

import "electrochem-data-api/internal/dataset"

type ComparisonServicePort interface {
	CreateComparison(p dataset.Principal, input CreateComparisonInput) (DatasetComparison, error)
	GetByTag(tag string) (DatasetComparison, error)
	ListComparisons(userID uint, page, pageSize int) (Page, error)
	CanView(p dataset.Principal, comp DatasetComparison) (bool, error)
	GetDetail(comp DatasetComparison) (ComparisonDetail, error)
}
