package dataset

type DatasetServicePort interface {
	PrincipalFor(userID *uint) (Principal, error)

	CreateUpload(input CreateUploadInput) (FileUpload, error)
	GetByID(id uint) (FileUpload, error)
	ListDatasets(p Principal) ([]DatasetSummary, error)
	VisibilityFor(f FileUpload) (DatasetVisibility, error)

	ListVersions(logicalFileID uint) ([]VersionWithUser, error)
	CreateNewVersion(existingID uint, newContent, changes string) (FileUpload, error)
	RevertToVersion(logicalFileID uint, version int) (FileUpload, error)
	IncrementDownloads(id uint) error
}
