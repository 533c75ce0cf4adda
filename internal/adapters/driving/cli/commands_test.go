package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/custodia-labs/contentrag/internal/adapters/driving/http"
	"github.com/custodia-labs/contentrag/internal/adapters/driving/watcher"
)

func TestServeCmd_Flags(t *testing.T) {
	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, apihttp.DefaultAddr, addr.DefValue)

	upload := serveCmd.Flags().Lookup("max-upload")
	require.NotNil(t, upload)
	assert.Equal(t, "10485760", upload.DefValue)
}

func TestWatchCmd_Flags(t *testing.T) {
	debounce := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, debounce)
	assert.Equal(t, watcher.DefaultDebounce.String(), debounce.DefValue)

	scan := watchCmd.Flags().Lookup("scan")
	require.NotNil(t, scan)
	assert.Equal(t, "false", scan.DefValue)
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
	assert.Equal(t, "127.0.0.1", mcpServeCmd.Flags().Lookup("host").DefValue)
}

func TestServerCommands_RequireServices(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		clear   func()
		wantErr string
	}{
		{
			name:    "serve without search",
			args:    []string{"serve"},
			clear:   func() { searchService = nil },
			wantErr: "search and ingestion services not configured",
		},
		{
			name:    "serve without ingestion",
			args:    []string{"serve"},
			clear:   func() { ingestionService = nil },
			wantErr: "search and ingestion services not configured",
		},
		{
			name:    "watch without ingestion",
			args:    []string{"watch", "."},
			clear:   func() { ingestionService = nil },
			wantErr: "ingestion service not configured",
		},
		{
			name:    "mcp without search",
			args:    []string{"mcp", "serve"},
			clear:   func() { searchService = nil },
			wantErr: "search service not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()
			tt.clear()

			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "watch", "/nonexistent/contentrag-watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
