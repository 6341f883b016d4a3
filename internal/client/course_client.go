package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/security"
	"lms-platform/internal/util"
)

const maxCourseResponse = 1 << 20

// CourseClient : чтение курсов из course-сервиса внутри доверенной сети.
// Идентичность вызывающего и trace id передаются заголовками, как это делает шлюз.
type CourseClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCourseClient(cfg config.CourseServiceConfig) *CourseClient {
	return &CourseClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// GetCourse : курс по uuid, отсутствующий курс это apperr.KindNotFound
func (c *CourseClient) GetCourse(ctx context.Context, identity security.Identity, courseUUID string) (*model.Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/courses/"+url.PathEscape(courseUUID), nil)
	if err != nil {
		return nil, util.LogError("[CourseClient] не удалось собрать запрос", err)
	}
	security.InjectIdentityHeaders(req.Header, identity)
	if traceID := util.TraceID(ctx); traceID != "" {
		req.Header.Set(util.TraceHeader, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.Logger(ctx).Error().Err(err).Msg("[CourseClient] course-сервис недоступен")
		return nil, apperr.BadGateway(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperr.NotFound("course not found", nil)
	default:
		return nil, apperr.BadGateway(fmt.Errorf("course service answered %d", resp.StatusCode))
	}

	var envelope struct {
		Data *model.Course `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCourseResponse)).Decode(&envelope); err != nil {
		return nil, apperr.BadGateway(fmt.Errorf("decode course: %w", err))
	}
	if envelope.Data == nil {
		return nil, apperr.BadGateway(fmt.Errorf("course service returned empty data"))
	}
	return envelope.Data, nil
}
