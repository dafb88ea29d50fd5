package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// parameterLister is the part of the SSM client used to read parameters.
type parameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM overlays parameters stored under AWS_SSM_PREFIX onto the config map.
// Keys already present in the environment win. Without a prefix the map is returned unchanged.
func LoadSSM(ctx context.Context, c map[string]string) (map[string]string, error) {
	prefix := GetString(c, "AWS_SSM_PREFIX", "")
	if prefix == "" {
		return c, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(c, "AWS_REGION", "us-east-1")))
	if err != nil {
		return c, fmt.Errorf("load aws config: %w", err)
	}

	return overlayParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
}

func overlayParameters(ctx context.Context, client parameterLister, prefix string, c map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(c))
	for k, v := range c {
		merged[k] = v
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return c, fmt.Errorf("read ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if _, exists := merged[key]; exists {
				continue
			}
			merged[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("prefix", prefix).Int("parameters", loaded).Msg("Loaded configuration from SSM")
	return merged, nil
}
