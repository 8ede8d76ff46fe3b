package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

func TestNewDocumentService(t *testing.T) {
	svc := NewDocumentService(memory.NewLedger())
	require.NotNil(t, svc)
}

func TestDocumentService_List(t *testing.T) {
	ledger := memory.NewLedger()
	svc := NewDocumentService(ledger)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Insert(ctx, domain.Document{ID: "2", Name: "b.pdf", IngestedAt: base.Add(time.Hour)}))
	require.NoError(t, ledger.Insert(ctx, domain.Document{ID: "1", Name: "a.pdf", IngestedAt: base}))

	docs, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Name)
	assert.Equal(t, "b.pdf", docs[1].Name)
}

func TestDocumentService_List_Empty(t *testing.T) {
	svc := NewDocumentService(memory.NewLedger())

	docs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentService_List_Error(t *testing.T) {
	svc := NewDocumentService(&stubLedger{listErr: assert.AnError})

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestDocumentService_Get(t *testing.T) {
	ledger := memory.NewLedger()
	svc := NewDocumentService(ledger)
	ctx := context.Background()
	require.NoError(t, ledger.Insert(ctx, domain.Document{ID: "doc-1", Name: "contract.pdf"}))

	doc, err := svc.Get(ctx, "  contract.pdf ")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
}

func TestDocumentService_Get_NotFound(t *testing.T) {
	svc := NewDocumentService(memory.NewLedger())

	_, err := svc.Get(context.Background(), "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Get_EmptyName(t *testing.T) {
	svc := NewDocumentService(memory.NewLedger())

	_, err := svc.Get(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
