package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SchemaStrict, cfg.Validator.Schema)
	assert.Equal(t, ProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, OpenAIEmbeddingDimension, cfg.Embedding.Dimensions)
	assert.Equal(t, "/coaches/jenny/curated/kb_chips/", cfg.Buckets[fileModel.BucketKBChips])

	missing, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputRoot, missing.OutputRoot)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "kbcurator.toml", `
roots = ["/data/a", "/data/b"]

[classifier]
coach = "sam"

[validator]
schema = "legacy"
min_content_length = 10

[embedding]
provider = "google"

[buckets]
reports = "/custom/reports/"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a", "/data/b"}, cfg.Roots)
	assert.Equal(t, SchemaLegacy, cfg.Validator.Schema)
	assert.Equal(t, 10, cfg.Validator.MinContentLength)
	assert.Equal(t, GoogleEmbeddingModel, cfg.Embedding.Model)
	assert.Equal(t, GoogleEmbeddingDimension, cfg.Embedding.Dimensions)
	assert.Equal(t, "/custom/reports/", cfg.Buckets[fileModel.BucketReports])
	// unset buckets follow the configured coach
	assert.Equal(t, "/coaches/sam/raw/", cfg.Buckets[fileModel.BucketRaw])
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "kbcurator.yaml", `
output_root: out
validator:
  schema: kbv6-compat
server:
  listen_addr: ":8080"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputRoot)
	assert.Equal(t, SchemaKBv6Compat, cfg.Validator.Schema)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.toml", "[validator]\nschema = \"v9\"\n"))
	assert.ErrorIs(t, err, ErrUnknownSchema)

	_, err = Load(writeFile(t, "bad.yaml", "embedding:\n  provider: cohere\n"))
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = Load(writeFile(t, "broken.toml", "roots = ["))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("KBCURATOR_AUTH_TOKEN", "tok")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "qdrant.internal", cfg.VectorIndex.Host)
	assert.Equal(t, 7000, cfg.VectorIndex.Port)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "tok", cfg.Server.AuthToken)
}

func TestUseProvider(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "g-key")
	cfg := Default()

	require.NoError(t, cfg.UseProvider(ProviderGoogle))
	assert.Equal(t, GoogleEmbeddingModel, cfg.Embedding.Model)
	assert.Equal(t, GoogleEmbeddingDimension, cfg.Embedding.Dimensions)
	assert.Equal(t, "g-key", cfg.Embedding.APIKey)

	require.NoError(t, cfg.UseProvider(ProviderDryRun))
	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Equal(t, DryRunEmbeddingDimension, cfg.Embedding.Dimensions)

	assert.ErrorIs(t, cfg.UseProvider("cohere"), ErrUnknownProvider)
	assert.NoError(t, cfg.UseProvider(""))
}

func TestValidate_MissingBucket(t *testing.T) {
	cfg := Default()
	delete(cfg.Buckets, fileModel.BucketArchive)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBucket)
}
