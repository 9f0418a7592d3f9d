package lookup

type LookupServiceAPI interface {
	GetAllDataTypes() ([]DataType, error)
	GetAllCategories() ([]DataCategory, error)
}
