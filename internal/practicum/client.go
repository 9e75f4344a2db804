package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "homework-status-bot/internal/common/errors"
	apphttp "homework-status-bot/internal/common/http"
	"homework-status-bot/internal/common/logger"
	"homework-status-bot/internal/common/metrics"
)

// Client fetches homework review statuses from the Practicum API.
type Client struct {
	endpoint   string
	token      string
	httpClient *apphttp.Client
	logger     logger.Logger
}

func NewClient(endpoint, token string, httpClient *apphttp.Client, log logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: httpClient,
		logger:     log.WithFields(map[string]interface{}{"component": "practicum"}),
	}
}

// GetStatuses requests every submission changed since fromDate and returns
// the decoded JSON body.
func (c *Client) GetStatuses(ctx context.Context, fromDate int64) (map[string]interface{}, error) {
	query := url.Values{"from_date": []string{strconv.FormatInt(fromDate, 10)}}
	header := http.Header{"Authorization": []string{"OAuth " + c.token}}

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, c.endpoint, query, header)
	if err != nil {
		metrics.APIRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		stdErr := apperrors.NewAPIRequestFailedError(c.endpoint, err)
		c.logger.Error(stdErr.Message, map[string]interface{}{
			"endpoint": c.endpoint,
			"error":    err,
		})
		return nil, stdErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.APIRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
		stdErr := apperrors.NewAPIBadStatusError(c.endpoint, resp.StatusCode)
		c.logger.Error(stdErr.Message, map[string]interface{}{
			"endpoint":   c.endpoint,
			"statusCode": resp.StatusCode,
		})
		return nil, stdErr
	}

	body, err := io.ReadAll(resp.Body)
	metrics.APIRequestDuration.WithLabelValues("200").Observe(time.Since(start).Seconds())
	if err != nil {
		stdErr := apperrors.NewAPIRequestFailedError(c.endpoint, fmt.Errorf("failed to read response body: %w", err))
		c.logger.Error(stdErr.Message, map[string]interface{}{"endpoint": c.endpoint})
		return nil, stdErr
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		stdErr := apperrors.NewAPIResponseInvalidError("failed to decode response", err)
		c.logger.Error(stdErr.Message, map[string]interface{}{
			"endpoint": c.endpoint,
			"error":    err,
		})
		return nil, stdErr
	}

	c.logger.Debug("status API answered", map[string]interface{}{
		"fromDate": fromDate,
		"bytes":    len(body),
	})
	return result, nil
}
