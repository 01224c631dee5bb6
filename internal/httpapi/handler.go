package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
)

// RecordHandler serves one owner's collection read-only.
type RecordHandler struct {
	ownerID  string
	records  service.RecordService
	profiles service.ProfileService
	export   service.ExportService
	logger   *zap.Logger
	now      func() time.Time
}

func NewRecordHandler(ownerID string, records service.RecordService, profiles service.ProfileService, export service.ExportService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		ownerID:  ownerID,
		records:  records,
		profiles: profiles,
		export:   export,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *RecordHandler) List(c *gin.Context) {
	order, err := service.ParseSortOrder(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.records.List(c.Request.Context(), h.ownerID, order)
	if err != nil {
		h.internalError(c, "listing records", err)
		return
	}

	resp := ListRecordsResponse{Records: make([]RecordResponse, 0, len(list)), Count: len(list)}
	for _, sr := range list {
		resp.Records = append(resp.Records, toRecordResponse(sr))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Get(c *gin.Context) {
	workID := c.Param("workId")
	sr, err := h.records.Get(c.Request.Context(), h.ownerID, workID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("record %s not found", workID)})
			return
		}
		h.internalError(c, "getting record", err)
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(sr))
}

func (h *RecordHandler) Dashboard(c *gin.Context) {
	list, err := h.records.List(c.Request.Context(), h.ownerID, service.SortDefault)
	if err != nil {
		h.internalError(c, "listing records", err)
		return
	}
	c.JSON(http.StatusOK, service.Summarize(list))
}

func (h *RecordHandler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.records.List(ctx, h.ownerID, service.SortDefault)
	if err != nil {
		h.internalError(c, "listing records", err)
		return
	}

	// Export still works before a profile exists; user columns stay blank.
	profile, err := h.profiles.Get(ctx, h.ownerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.internalError(c, "loading profile", err)
		return
	}
	if profile == nil {
		profile = &domain.UserProfile{UserID: h.ownerID}
	}

	var buf bytes.Buffer
	if err := h.export.WriteCSV(&buf, profile, list); err != nil {
		h.internalError(c, "writing csv", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.export.DefaultFileName(h.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *RecordHandler) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.logger.Error(msg, zap.Error(err), zap.String("request_id", c.GetString(requestIDHeader)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg + " failed"})
}
