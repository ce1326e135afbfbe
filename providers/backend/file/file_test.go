package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bench-harness/types"
)

func TestFile_Roundtrip(t *testing.T) {
	ctx := context.Background()
	testBackend := Backend{Name: "file", BasePath: t.TempDir()}

	results := &types.Results{
		Language:          "go",
		Framework:         "gin",
		RequestsPerSecond: 125000.5,
		LatencyP50:        0.8,
		LatencyP99:        4.2,
		CollectedAt:       time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, testBackend.PreCmd(ctx, "test-run"))
	require.NoError(t, testBackend.Write(ctx, "test-run", results))

	actual, err := testBackend.Read(ctx, "test-run")
	require.NoError(t, err)
	assert.Equal(t, results, actual)
}

func TestFile_ReadMissing(t *testing.T) {
	testBackend := Backend{Name: "file", BasePath: t.TempDir()}

	_, err := testBackend.Read(context.Background(), "missing-run")
	assert.ErrorContains(t, err, "results file does not exist")
}

func TestFile_Delete(t *testing.T) {
	ctx := context.Background()
	testBackend := Backend{Name: "file", BasePath: t.TempDir()}

	require.NoError(t, testBackend.PreCmd(ctx, "test-run"))
	require.NoError(t, testBackend.Write(ctx, "test-run", &types.Results{Language: "go"}))
	require.NoError(t, testBackend.Delete(ctx, "test-run"))

	_, err := testBackend.Read(ctx, "test-run")
	assert.Error(t, err)
}
