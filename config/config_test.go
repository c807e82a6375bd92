package config

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"FLAG":    "true",
		"LIST":    " a, ,b ,c",
		"EMPTY":   "",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, 9090, GetInt(c, "PORT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.True(t, GetBool(c, "FLAG", false))
	assert.False(t, GetBool(c, "MISSING", false))
	assert.Equal(t, []string{"a", "b", "c"}, GetList(c, "LIST"))
	assert.Nil(t, GetList(c, "MISSING"))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))
}

func TestLoadSessionSecretFallback(t *testing.T) {
	dev := Load(map[string]string{"APP_ENV": "development"})
	assert.Equal(t, insecureSessionSecret, dev.Session.Secret)

	prod := Load(map[string]string{})
	assert.Empty(t, prod.Session.Secret)

	alias := Load(map[string]string{"NEXTAUTH_SECRET": "s3cret"})
	assert.Equal(t, "s3cret", alias.Session.Secret)
}

func TestLoadSupabaseDSN(t *testing.T) {
	cfg := Load(map[string]string{
		"DB_TYPE":              "supa",
		"SUPABASE_DB_HOST":     "db.example.com",
		"SUPABASE_DB_USER":     "postgres",
		"SUPABASE_DB_PASSWORD": "pw",
		"SUPABASE_DB_NAME":     "portfolio",
	})

	assert.Equal(t, "host=db.example.com user=postgres password=pw dbname=portfolio port=5432 sslmode=require", cfg.Database.URL)
}

func TestLoadTrimsSiteURL(t *testing.T) {
	cfg := Load(map[string]string{"SITE_URL": "https://example.com/"})
	assert.Equal(t, "https://example.com", cfg.SiteURL)
}

type fakeParameterLister struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeParameterLister) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestMergeParametersKeepsExistingValues(t *testing.T) {
	lister := &fakeParameterLister{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/portfolio/prod/SESSION_SECRET"), Value: aws.String("from-ssm")},
				{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("1234")},
			},
			NextToken: aws.String("next"),
		},
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/portfolio/prod/cloudinary_api_key"), Value: aws.String("key")},
			},
		},
	}}

	c := map[string]string{"PORT": "8080"}
	merged, err := MergeParameters(context.Background(), lister, "/portfolio/prod", c)
	require.NoError(t, err)

	assert.Equal(t, 2, merged)
	assert.Equal(t, "from-ssm", c["SESSION_SECRET"])
	assert.Equal(t, "8080", c["PORT"])
	assert.Equal(t, "key", c["CLOUDINARY_API_KEY"])
}
