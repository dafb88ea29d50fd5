package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"AUTO_MIGRATE":     "true",
		"TIMEOUT_SECONDS":  "5",
		"ACCEPTED_ORIGINS": "https://a.dev, ,https://b.dev",
		"EMPTY":            "",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 7, GetInt(c, "BAD_INT", 7))
	assert.True(t, GetBool(c, "AUTO_MIGRATE", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, 5*time.Second, GetDuration(c, "TIMEOUT_SECONDS", 10, time.Second))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(c, "ACCEPTED_ORIGINS", nil))
	assert.Equal(t, []string{"*"}, GetList(c, "MISSING", []string{"*"}))
}

type mockParameterLister struct {
	mock.Mock
}

func (m *mockParameterLister) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParametersByPathOutput), args.Error(1)
}

func TestOverlayParameters(t *testing.T) {
	ctx := context.Background()

	t.Run("environment wins over ssm", func(t *testing.T) {
		client := &mockParameterLister{}
		client.On("GetParametersByPath", ctx, mock.Anything).Return(&ssm.GetParametersByPathOutput{
			Parameters: []types.Parameter{
				{Name: aws.String("/portfolio/prod/resend_api_key"), Value: aws.String("re_123")},
				{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("1234")},
			},
		}, nil)

		merged, err := overlayParameters(ctx, client, "/portfolio/prod", map[string]string{"PORT": "8080"})
		require.NoError(t, err)
		assert.Equal(t, "re_123", merged["RESEND_API_KEY"])
		assert.Equal(t, "8080", merged["PORT"])
		client.AssertExpectations(t)
	})

	t.Run("error keeps original map", func(t *testing.T) {
		client := &mockParameterLister{}
		client.On("GetParametersByPath", ctx, mock.Anything).Return(nil, errors.New("access denied"))

		original := map[string]string{"PORT": "8080"}
		merged, err := overlayParameters(ctx, client, "/portfolio/prod", original)
		assert.Error(t, err)
		assert.Equal(t, original, merged)
	})
}

func TestLoadSSMWithoutPrefix(t *testing.T) {
	c := map[string]string{"PORT": "8080"}
	merged, err := LoadSSM(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, c, merged)
}
