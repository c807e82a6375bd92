package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterLister is the subset of the SSM client used to fetch parameters by path.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM merges the parameters stored under AWS_SSM_PARAMETER_PATH into c.
// Values already present in c are never overwritten. It is a no-op when the path is unset.
func LoadSSM(ctx context.Context, c map[string]string) (int, error) {
	paramPath := GetString(c, "AWS_SSM_PARAMETER_PATH", "")
	if paramPath == "" {
		return 0, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("load aws config: %w", err)
	}

	return MergeParameters(ctx, ssm.NewFromConfig(awsCfg), paramPath, c)
}

// MergeParameters pages through every parameter under paramPath and copies it into c,
// keyed by the last path segment (/portfolio/prod/SESSION_SECRET -> SESSION_SECRET).
func MergeParameters(ctx context.Context, client ParameterLister, paramPath string, c map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(paramPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	merged := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return merged, fmt.Errorf("get parameters by path %s: %w", paramPath, err)
		}

		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := c[key]; ok && existing != "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			merged++
		}
	}

	return merged, nil
}
