package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfileYAML = `businessName: Dawn Bakery
industry: bakery
businessType: retail
targetAudience: local families
keyServices:
  - Sourdough
  - Catering
`

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProfileCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, 3)
	for _, cmd := range profileCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"add", "similar", "search"}, names)
}

func TestProfileAddCmd_Executes(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "profile", "add", writeProfile(t, "p.yaml", testProfileYAML))

	require.NoError(t, err)
	assert.Contains(t, out, "Stored profile for Dawn Bakery: profile-1")
	require.NotNil(t, mocks.ingestion.lastProfile)
	assert.Equal(t, []string{"Sourdough", "Catering"}, mocks.ingestion.lastProfile.KeyServices)
}

func TestProfileAddCmd_InvalidFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "profile", "add", writeProfile(t, "p.yaml", "businessName: X\nrevenue: 10\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse profile")
}

func TestProfileSimilarCmd_Executes(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "profile", "similar", writeProfile(t, "p.yaml", testProfileYAML))

	require.NoError(t, err)
	assert.Contains(t, out, "Companies similar to Dawn Bakery")
	assert.Contains(t, out, "[1] Crumb & Co (0.82)")
	assert.Contains(t, out, "bakery / retail")
	assert.Equal(t, 3, mocks.search.lastLimit)
}

func TestProfileSimilarCmd_RequiresIndustry(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "profile", "similar", writeProfile(t, "p.yaml", "businessName: Solo\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "industry is required")
}

func TestProfileSearchCmd_NoQuery(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "profile", "search", "--industry", "bakery", "--type", "retail", "-n", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "  Crumb & Co\n")
	assert.Contains(t, out, "Total: 1 companies")
	assert.Empty(t, mocks.search.lastQuery)
	assert.Equal(t, "bakery", mocks.search.lastFilter.Industry)
	assert.Equal(t, "retail", mocks.search.lastFilter.BusinessType)
	assert.Equal(t, 4, mocks.search.lastFilter.Limit)
}

func TestProfileSearchCmd_WithQuery(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "profile", "search", "artisan bread")

	require.NoError(t, err)
	assert.Contains(t, out, "Crumb & Co (0.64)")
	assert.Equal(t, "artisan bread", mocks.search.lastQuery)
	assert.Equal(t, 10, mocks.search.lastFilter.Limit)
}
