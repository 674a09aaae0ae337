package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/models/entities"
)

// EngagementAPI is the slice of the external backend the services need.
// The concrete provider talks HTTP; tests substitute fakes.
type EngagementAPI interface {
	InitiateAuth(ctx context.Context, token string, req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error)
	ListAccounts(ctx context.Context, token string) ([]entities.TikTokAccount, int, error)
	SetPrimary(ctx context.Context, token string, accountID string) (int, error)
	DeleteAccount(ctx context.Context, token string, accountID string) (int, error)
	Disconnect(ctx context.Context, token string) (int, error)
	ListVideos(ctx context.Context, token string) ([]dtos.Video, int, error)
	GetLeaderboard(ctx context.Context, contestID string, limit int) ([]dtos.LeaderboardEntry, int, error)
}

// EngagementProvider implements EngagementAPI against the Crown
// engagement backend (/api/v1/tiktok/*, /api/v1/contests/:id/leaderboard).
// APIKey, when set, identifies this service to the backend on every call;
// the per-user bearer token rides alongside it.
type EngagementProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ EngagementAPI = (*EngagementProvider)(nil)

// NewEngagementProvider creates a provider from the loaded configuration.
func NewEngagementProvider(baseURL, apiKey string) *EngagementProvider {
	if baseURL == "" {
		baseURL = "https://api.crown-contests.io/api/v1" // Default
	}

	return &EngagementProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitiateAuth starts a TikTok authorization flow and returns the URL the
// client must open.
func (p *EngagementProvider) InitiateAuth(ctx context.Context, token string, req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error) {
	var result dtos.AuthInitiateResponse
	status, err := p.do(ctx, http.MethodPost, "/tiktok/auth/initiate", token, req, &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// ListAccounts fetches the user's linked TikTok accounts.
func (p *EngagementProvider) ListAccounts(ctx context.Context, token string) ([]entities.TikTokAccount, int, error) {
	var envelope dtos.AccountsEnvelope
	status, err := p.do(ctx, http.MethodGet, "/tiktok/accounts", token, nil, &envelope)
	if err != nil {
		return nil, status, err
	}
	return envelope.Data.Accounts, status, nil
}

// SetPrimary marks one linked account as the default for submissions.
func (p *EngagementProvider) SetPrimary(ctx context.Context, token string, accountID string) (int, error) {
	if accountID == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "account ID cannot be empty",
		}
	}
	return p.do(ctx, http.MethodPost, "/tiktok/accounts/set-primary", token, dtos.SetPrimaryRequest{AccountID: accountID}, nil)
}

// DeleteAccount unlinks a single TikTok account.
func (p *EngagementProvider) DeleteAccount(ctx context.Context, token string, accountID string) (int, error) {
	if accountID == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "account ID cannot be empty",
		}
	}
	return p.do(ctx, http.MethodDelete, "/tiktok/accounts/"+url.PathEscape(accountID), token, nil, nil)
}

// Disconnect unlinks every TikTok account for the user.
func (p *EngagementProvider) Disconnect(ctx context.Context, token string) (int, error) {
	return p.do(ctx, http.MethodPost, "/tiktok/profile/disconnect", token, nil, nil)
}

// ListVideos fetches the user's recent TikTok videos. Both response
// nesting shapes are handled by the envelope; a PERMISSION_DENIED error
// body maps to its dedicated code.
func (p *EngagementProvider) ListVideos(ctx context.Context, token string) ([]dtos.Video, int, error) {
	var envelope dtos.VideosEnvelope
	status, err := p.do(ctx, http.MethodPost, "/tiktok/videos", token, nil, &envelope)
	if err != nil {
		return nil, status, err
	}
	return envelope.Videos, status, nil
}

// GetLeaderboard fetches the externally ranked standings for a contest.
func (p *EngagementProvider) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
	if contestID == "" {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "contest ID cannot be empty",
		}
	}
	if limit < 1 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/contests/%s/leaderboard?limit=%d", url.PathEscape(contestID), limit)

	var envelope dtos.LeaderboardEnvelope
	status, err := p.do(ctx, http.MethodGet, endpoint, "", nil, &envelope)
	if err != nil {
		return nil, status, err
	}
	return envelope.Data.Leaderboard, status, nil
}

// do performs a request with optional bearer auth and JSON body.
func (p *EngagementProvider) do(ctx context.Context, method, endpoint, token string, payload interface{}, result interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return 0, &ProviderError{
				Code:    constants.ErrCodeNetworkError,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, body)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if p.APIKey != "" {
		req.Header.Set("X-API-Key", p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, p.buildHTTPError(resp.StatusCode, endpoint, bodyBytes)
	}

	if result == nil {
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}

// buildHTTPError creates an appropriate error based on status code and
// any error_code the backend put in the body.
func (p *EngagementProvider) buildHTTPError(statusCode int, endpoint string, body []byte) error {
	var errBody dtos.ErrorBody
	_ = json.Unmarshal(body, &errBody)

	if errBody.ErrorCode == constants.ErrCodePermissionDenied {
		return &ProviderError{
			Code:    constants.ErrCodePermissionDenied,
			Message: constants.GetErrorMessage(constants.ErrCodePermissionDenied),
			Details: errBody.Message,
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: string(body),
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeAccountNotFound,
			Message: fmt.Sprintf("Resource not found: %s", endpoint),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("Bad request to %s", endpoint),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: string(body),
		}
	}
}
