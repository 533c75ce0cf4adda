package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCmd_Use(t *testing.T) {
	assert.Equal(t, "generate [profile-file]", generateCmd.Use)
}

func TestGenerateCmd_TemplateFlagEmptyByDefault(t *testing.T) {
	flag := generateCmd.Flags().Lookup("template")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestGenerateCmd_Executes(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "generate", writeProfile(t, "p.yaml", testProfileYAML))

	require.NoError(t, err)
	assert.Contains(t, out, "Fresh bread daily")
	assert.Contains(t, out, "Sourdough: Slow fermented")
	assert.Contains(t, out, "hi@bakery.test | 555-0100")
	assert.Contains(t, out, "1 similar profiles, 2 documents")
	assert.Contains(t, out, "fallback template")
	assert.Empty(t, mocks.generation.lastTemplate, "profile template must not be overridden")
	assert.Equal(t, "Dawn Bakery", mocks.generation.lastProfile.BusinessName)
}

func TestGenerateCmd_JSONProfileAndTemplate(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	path := writeProfile(t, "p.json", `{"businessName": "Dawn Bakery", "industry": "bakery"}`)
	out, err := execute(t, "generate", "--template", "classic", "--json", path)

	require.NoError(t, err)
	assert.Contains(t, out, `"template": "classic"`)
	assert.Contains(t, out, `"headline": "Fresh bread daily"`)
	assert.Equal(t, "classic", mocks.generation.lastTemplate)
}

func TestGenerateCmd_ServiceError(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	mocks.generation.err = errors.New("store failed")

	_, err := execute(t, "generate", writeProfile(t, "p.yaml", testProfileYAML))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestGenerateCmd_NoService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	generationService = nil

	_, err := execute(t, "generate", "profile.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation service not configured")
}
