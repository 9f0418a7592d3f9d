package lookup

import (
	"gorm.io/gorm"
)

type LookupService struct {
	DB *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{DB: db}
}

func (ls *LookupService) GetAllDataTypes() ([]DataType, error) {
	dataTypes := []DataType{}
	result := ls.DB.Order("name ASC").Find(&dataTypes)
	if result.Error != nil {
		return nil, result.Error
	}
	return dataTypes, nil
}

func (ls *LookupService) GetAllCategories() ([]DataCategory, error) {
	categories := []DataCategory{}
	result := ls.DB.Order("id ASC").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}
