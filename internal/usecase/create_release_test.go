package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateReleaseUseCase_Execute(t *testing.T) {
	release := &domain.ReleaseDescriptor{Version: "1.0.0", Description: "notes"}
	t.Run("Should pass through failed responses", func(t *testing.T) {
		api := new(mockReleaseAPIRepository)
		api.On("CreateRelease", mock.Anything, release).
			Return(&domain.ReleaseResponse{StatusCode: 400, Body: `{"error":"tag exists"}`}, nil).
			Once()
		uc := &CreateReleaseUseCase{ReleaseAPI: api}
		resp, err := uc.Execute(context.Background(), release)
		require.NoError(t, err)
		assert.True(t, resp.Failed())
		api.AssertExpectations(t)
	})
	t.Run("Should wrap transport errors", func(t *testing.T) {
		api := new(mockReleaseAPIRepository)
		api.On("CreateRelease", mock.Anything, release).Return(nil, errors.New("connection refused")).Once()
		uc := &CreateReleaseUseCase{ReleaseAPI: api}
		_, err := uc.Execute(context.Background(), release)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Contains(t, err.Error(), `"1.0.0"`)
	})
	t.Run("Should reject nil release", func(t *testing.T) {
		api := new(mockReleaseAPIRepository)
		uc := &CreateReleaseUseCase{ReleaseAPI: api}
		_, err := uc.Execute(context.Background(), nil)
		assert.Error(t, err)
		api.AssertNotCalled(t, "CreateRelease")
	})
}
