package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// mockIngestionService records calls and reports per-name results.
type mockIngestionService struct {
	calls   [][2]string
	already map[string]bool
	errs    map[string]error
}

func (m *mockIngestionService) Ingest(_ context.Context, path, name string) (*domain.IngestResult, error) {
	m.calls = append(m.calls, [2]string{path, name})
	if err := m.errs[name]; err != nil {
		return nil, err
	}
	if m.already[name] {
		return &domain.IngestResult{AlreadyIngested: true}, nil
	}
	return &domain.IngestResult{DocumentID: "doc-" + name, PagesProcessed: 3}, nil
}

// mockClauseService returns one candidate per clause type.
type mockClauseService struct {
	err      error
	lastDoc  string
	lastType domain.ClauseType
	empty    bool
}

func testCandidate(ct domain.ClauseType, page int) domain.ClauseCandidate {
	return domain.ClauseCandidate{
		Passage: domain.Passage{
			ID:   domain.PassageID("contract.pdf", page, 0),
			Text: fmt.Sprintf("%s text on page %d.", ct, page),
			Metadata: domain.PassageMetadata{
				DocumentName: "contract.pdf",
				PageNumber:   page,
				Headings:     domain.HeadingPath{"Agreement", string(ct), ""},
			},
		},
		Distance:   0.5,
		ClauseType: ct,
	}
}

func (m *mockClauseService) Extract(
	_ context.Context, documentName string, clauseType domain.ClauseType,
) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	m.lastType = clauseType
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return nil, nil
	}
	return []domain.ClauseCandidate{testCandidate(clauseType, 2)}, nil
}

func (m *mockClauseService) ExtractAll(_ context.Context, documentName string) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return []domain.ClauseCandidate{}, nil
	}
	var all []domain.ClauseCandidate
	for i, ct := range domain.ClauseTypes() {
		all = append(all, testCandidate(ct, i+1))
	}
	return all, nil
}

// mockDocumentService serves a fixed ledger.
type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, name string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.documents {
		if m.documents[i].Name == name {
			return &m.documents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	saved       int
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	m.saved++
	return nil
}

func (m *mockSettingsService) SetParserProvider(provider domain.ParserProvider, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: parser provider %s", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = m.settings.Parser.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}
	m.settings.Parser.Provider = provider
	m.settings.Parser.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetMetric(metric domain.DistanceMetric) error {
	if !metric.IsValid() {
		return fmt.Errorf("%w: distance metric %s", domain.ErrInvalidInput, metric)
	}
	m.settings.Index.Metric = metric
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testServices exposes the mocks installed by setupTestServices.
type testServices struct {
	ingestion *mockIngestionService
	clause    *mockClauseService
	document  *mockDocumentService
	settings  *mockSettingsService
}

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous services and resets flag state.
func setupTestServices() func() {
	cleanup, _ := setupTestServicesWithMocks()
	return cleanup
}

func setupTestServicesWithMocks() (func(), *testServices) {
	prevIngestion, prevClause, prevDocument, prevSettings, prevSupported :=
		ingestionService, clauseService, documentService, settingsService, supportedFile

	ts := &testServices{
		ingestion: &mockIngestionService{},
		clause:    &mockClauseService{},
		document: &mockDocumentService{
			documents: []domain.Document{
				{ID: "id-1", Name: "lease.pdf", IngestedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
				{ID: "id-2", Name: "nda.md", IngestedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
			},
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	SetServices(Services{
		Ingestion: ts.ingestion,
		Clause:    ts.clause,
		Document:  ts.document,
		Settings:  ts.settings,
	})

	return func() {
		ingestionService, clauseService, documentService, settingsService, supportedFile =
			prevIngestion, prevClause, prevDocument, prevSettings, prevSupported
		resetFlags()
	}, ts
}

// resetFlags restores package-level flag variables between executions.
func resetFlags() {
	ingestName = ""
	clausesType = ""
	clausesJSON = false
	documentsJSON = false
	serveAddr = ""
	mcpHTTPAddr = ""
	verbose = false
	versionShort = false
	watchDebounce = watch.DefaultDebounce
	watchPatterns = nil
	// Array flags append once changed, so clear the parsed state too.
	if f := watchCmd.Flags().Lookup("pattern"); f != nil {
		if v, ok := f.Value.(interface{ Replace([]string) error }); ok {
			_ = v.Replace(nil)
		}
		f.Changed = false
	}
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
	rootCmd.SetContext(context.Background())
}
