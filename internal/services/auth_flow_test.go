package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
)

func newTestFlowService(api providers.EngagementAPI, poll, timeout time.Duration) *AuthFlowService {
	svc := NewAuthFlowService(api)
	svc.pollInterval = poll
	svc.timeout = timeout
	return svc
}

func TestAuthFlow_Completes(t *testing.T) {
	api := &fakeEngagementAPI{}
	svc := newTestFlowService(api, time.Millisecond, time.Second)

	handle, err := svc.Initiate(context.Background(), "tok", dtos.AuthInitiateRequest{})
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if handle.AuthURL == "" {
		t.Fatal("Expected an authorization URL")
	}

	checks := 0
	outcome, err := svc.AwaitCompletion(context.Background(), handle, func(ctx context.Context) (bool, error) {
		checks++
		return checks >= 3, nil
	})
	if err != nil {
		t.Fatalf("AwaitCompletion failed: %v", err)
	}
	if outcome != FlowCompleted {
		t.Errorf("Expected completed, got %s", outcome)
	}
	if checks < 3 {
		t.Errorf("Expected at least 3 polls, got %d", checks)
	}
}

func TestAuthFlow_TimesOut(t *testing.T) {
	api := &fakeEngagementAPI{}
	svc := newTestFlowService(api, time.Millisecond, 20*time.Millisecond)

	handle, _ := svc.Initiate(context.Background(), "tok", dtos.AuthInitiateRequest{})

	outcome, err := svc.AwaitCompletion(context.Background(), handle, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	if outcome != FlowTimedOut {
		t.Errorf("Expected timed_out, got %s", outcome)
	}
	if providers.ErrorCode(err) != constants.ErrCodeFlowTimedOut {
		t.Errorf("Expected FLOW_TIMED_OUT code, got %q", providers.ErrorCode(err))
	}
}

func TestAuthFlow_CheckErrorsAreRetried(t *testing.T) {
	api := &fakeEngagementAPI{}
	svc := newTestFlowService(api, time.Millisecond, time.Second)

	handle, _ := svc.Initiate(context.Background(), "tok", dtos.AuthInitiateRequest{})

	checks := 0
	outcome, err := svc.AwaitCompletion(context.Background(), handle, func(ctx context.Context) (bool, error) {
		checks++
		if checks < 2 {
			return false, errors.New("transient")
		}
		return true, nil
	})
	if err != nil || outcome != FlowCompleted {
		t.Fatalf("Expected completion after transient check error, got %s (%v)", outcome, err)
	}
}

func TestAuthFlow_BlockedInitiate(t *testing.T) {
	api := &fakeEngagementAPI{
		initiateFunc: func(req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error) {
			return nil, 502, &providers.ProviderError{Code: constants.ErrCodeUpstreamError, Message: "bad gateway"}
		},
	}
	svc := newTestFlowService(api, time.Millisecond, time.Second)

	_, err := svc.Initiate(context.Background(), "tok", dtos.AuthInitiateRequest{})
	if err == nil {
		t.Fatal("Expected blocked flow error")
	}
	if providers.ErrorCode(err) != constants.ErrCodeFlowBlocked {
		t.Errorf("Expected FLOW_BLOCKED code, got %q", providers.ErrorCode(err))
	}
}
