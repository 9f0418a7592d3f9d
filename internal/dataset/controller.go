package dataset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/logutils"

	"github.com/gin-gonic/gin"
	"github.com/iancoleman/orderedmap"
	"gorm.io/gorm"
)

type LogServicePort interface {
	Log(log logs.SystemLog, metadata interface{}) error
}

type DatasetController struct {
	Service    DatasetServicePort
	LogService LogServicePort
}

// principalFromContext resolves the optional userID the middleware set.
func (dc *DatasetController) principalFromContext(c *gin.Context) (Principal, error) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		return dc.Service.PrincipalFor(nil)
	}
	f, ok := userIDVal.(float64)
	if !ok {
		return Principal{}, errors.New("invalid user ID")
	}
	uid := uint(f)
	return dc.Service.PrincipalFor(&uid)
}

func (dc *DatasetController) audit(level, action, message string, userID *uint, fileName string) {
	entry := logs.SystemLog{Level: level, Service: "dataset", Action: action, Message: message, UserID: userID}
	if fileName != "" {
		entry.FileName = &fileName
	}
	if err := dc.LogService.Log(entry, nil); err != nil {
		logutils.Log.WithError(err).Warn("failed to insert audit log")
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrEmptyFileName) ||
		errors.Is(err, ErrNotUTF8) ||
		errors.Is(err, ErrInvalidDataType) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidProject)
}

func (dc *DatasetController) UploadDataset(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return
	}
	userID, ok := userIDVal.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	input := CreateUploadInput{
		FileName:      fileHeader.Filename,
		Content:       string(raw),
		FileSize:      fileHeader.Size,
		DataTypeID:    c.PostForm("dataType"),
		Description:   c.PostForm("description"),
		AccessLevel:   c.DefaultPostForm("accessLevel", "private"),
		Method:        c.PostForm("method"),
		ElectrodeType: c.PostForm("electrodeType"),
		Instrument:    c.PostForm("instrument"),
		Delimiter:     c.DefaultPostForm("delimiter", ","),
		ProjectTag:    c.PostForm("project"),
		UploadedBy:    uint(userID),
	}

	if rawCategory := c.PostForm("category"); rawCategory != "" {
		categoryID, err := strconv.Atoi(rawCategory)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidCategory.Error()})
			return
		}
		input.CategoryID = &categoryID
	}
	upload, err := dc.Service.CreateUpload(input)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := uint(userID)
	dc.audit("INFO", "UPLOAD_DATASET", fmt.Sprintf("Dataset uploaded : %s", upload.FileName), &uid, upload.FileName)

	c.JSON(http.StatusCreated, gin.H{
		"message":        "File uploaded successfully",
		"id":             upload.ID,
		"file_name":      upload.FileName,
		"file_size":      upload.FileSize,
		"data_type":      upload.DataTypeID,
		"description":    upload.Description,
		"access_level":   map[bool]string{true: "public", false: "private"}[upload.IsPublic],
		"category":       upload.CategoryID,
		"method":         upload.Method,
		"electrode_type": upload.ElectrodeType,
		"instrument":     upload.Instrument,
	})
}

func (dc *DatasetController) DownloadDataset(c *gin.Context) {
	datasetParam := c.Query("dataset")
	format := c.DefaultQuery("format", FormatCSV)
	delimiter := c.DefaultQuery("delimiter", ",")

	if datasetParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dataset is required"})
		return
	}
	if !ValidFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format"})
		return
	}

	id, err := strconv.ParseUint(datasetParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dataset is required"})
		return
	}

	upload, err := dc.Service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	principal, err := dc.principalFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	vis, err := dc.Service.VisibilityFor(upload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !EvaluateAccess(principal, vis).CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: This dataset is private"})
		return
	}

	// Counter advances before conversion, as the original service did; a
	// failed conversion still counts as a download.
	if err := dc.Service.IncrementDownloads(upload.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if upload.Content == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "File content not found"})
		return
	}

	payload, contentType, ext, err := Convert(upload.Content, upload.Delimiter, format, delimiter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var uid *uint
	if principal.Authenticated {
		uid = &principal.UserID
	}
	dc.audit("INFO", "DOWNLOAD_DATASET", fmt.Sprintf("Dataset downloaded : %s (%s)", upload.FileName, format), uid, upload.FileName)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", upload.FileName+"."+ext))
	c.Data(http.StatusOK, contentType, payload)
}

// gateForDataset loads a dataset and evaluates the caller's access to it.
func (dc *DatasetController) gateForDataset(c *gin.Context) (FileUpload, Principal, AccessLevel, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid dataset id is required"})
		return FileUpload{}, Principal{}, NoAccess, false
	}

	upload, err := dc.Service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return FileUpload{}, Principal{}, NoAccess, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return FileUpload{}, Principal{}, NoAccess, false
	}

	principal, err := dc.principalFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return FileUpload{}, Principal{}, NoAccess, false
	}
	vis, err := dc.Service.VisibilityFor(upload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return FileUpload{}, Principal{}, NoAccess, false
	}

	return upload, principal, EvaluateAccess(principal, vis), true
}

func (dc *DatasetController) GetVersions(c *gin.Context) {
	upload, _, access, ok := dc.gateForDataset(c)
	if !ok {
		return
	}
	if !access.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: This dataset is private"})
		return
	}

	versions, err := dc.Service.ListVersions(upload.LogicalFileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, versions)
}

func (dc *DatasetController) CreateVersion(c *gin.Context) {
	upload, principal, access, ok := dc.gateForDataset(c)
	if !ok {
		return
	}
	if !access.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this dataset"})
		return
	}

	var input NewVersionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_content is required"})
		return
	}

	successor, err := dc.Service.CreateNewVersion(upload.ID, input.FileContent, input.Changes)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dc.audit("INFO", "NEW_VERSION", fmt.Sprintf("Dataset version %d created : %s", successor.Version, successor.FileName), &principal.UserID, successor.FileName)

	c.JSON(http.StatusCreated, gin.H{
		"id":          successor.ID,
		"file_name":   successor.FileName,
		"uploaded_at": successor.UploadedAt,
		"version":     successor.Version,
	})
}

type revertInput struct {
	Version int `json:"version" binding:"required"`
}

func (dc *DatasetController) RevertVersion(c *gin.Context) {
	upload, principal, access, ok := dc.gateForDataset(c)
	if !ok {
		return
	}
	if !access.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this dataset"})
		return
	}

	var input revertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "version is required"})
		return
	}

	successor, err := dc.Service.RevertToVersion(upload.LogicalFileID, input.Version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dc.audit("INFO", "REVERT_VERSION", fmt.Sprintf("Dataset reverted to version %d : %s", input.Version, successor.FileName), &principal.UserID, successor.FileName)

	c.JSON(http.StatusCreated, gin.H{
		"id":          successor.ID,
		"file_name":   successor.FileName,
		"uploaded_at": successor.UploadedAt,
		"version":     successor.Version,
	})
}

func (dc *DatasetController) PreviewDataset(c *gin.Context) {
	upload, _, access, ok := dc.gateForDataset(c)
	if !ok {
		return
	}
	if !access.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: This dataset is private"})
		return
	}

	limit := 50
	if raw := c.Query("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rows"})
			return
		}
		limit = n
	}

	delim := ','
	if runes := []rune(upload.Delimiter); len(runes) > 0 {
		delim = runes[0]
	}
	headers, rows, err := ParseTable(upload.Content, delim)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total := len(rows)
	if total > limit {
		rows = rows[:limit]
	}

	// orderedmap keeps the column order the file declared
	preview := make([]*orderedmap.OrderedMap, 0, len(rows))
	for _, row := range rows {
		o := orderedmap.New()
		for i, h := range headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			o.Set(h, val)
		}
		preview = append(preview, o)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       upload.ID,
		"columns":  headers,
		"rows":     preview,
		"version":  upload.Version,
		"has_more": total > limit,
	})
}

func (dc *DatasetController) ListDatasets(c *gin.Context) {
	principal, err := dc.principalFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	datasets, err := dc.Service.ListDatasets(principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Datasets fetched successfully",
		"datasets": datasets,
	})
}
