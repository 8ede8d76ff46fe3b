package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresArg(t *testing.T) {
	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_UsesBaseName(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "ingest", "/contracts/lease.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested lease.pdf: 3 pages")
	require.Len(t, mocks.ingestion.calls, 1)
	assert.Equal(t, [2]string{"/contracts/lease.pdf", "lease.pdf"}, mocks.ingestion.calls[0])
}

func TestIngestCmd_NameFlag(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "ingest", "/tmp/upload-123.pdf", "--name", "lease.pdf")

	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", mocks.ingestion.calls[0][1])
}

func TestIngestCmd_NameFlagRejectsMultiplePaths(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "ingest", "a.pdf", "b.pdf", "--name", "x.pdf")

	require.Error(t, err)
	assert.Empty(t, mocks.ingestion.calls)
}

func TestIngestCmd_AlreadyIngested(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.ingestion.already = map[string]bool{"lease.pdf": true}

	out, err := execute(t, "ingest", "lease.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "lease.pdf already ingested, skipped")
}

func TestIngestCmd_SingleFailure(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.ingestion.errs = map[string]error{"bad.pdf": fmt.Errorf("%w: corrupt", domain.ErrParseFailure)}

	_, err := execute(t, "ingest", "bad.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParseFailure)
	assert.Equal(t, ExitParseFailure, ExitCode(err))
}

func TestIngestCmd_ContinuesAfterFailure(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.ingestion.errs = map[string]error{"bad.pdf": domain.ErrParseFailure}

	out, err := execute(t, "ingest", "bad.pdf", "good.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")
	assert.Contains(t, out, "Failed to ingest bad.pdf")
	assert.Contains(t, out, "Ingested good.pdf")
	assert.Len(t, mocks.ingestion.calls, 2)
}
