package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/pkg/batch"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/serrors"
)

type stubTx struct{}

func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }

func txContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type stubPublisher struct {
	mu        sync.Mutex
	published []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, args...)
}
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

func (p *stubPublisher) events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}{}, p.published...)
}

// mockDocRepo is safe for concurrent use: upload workers update state while
// the batch loop keeps creating records.
type mockDocRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]document.Document
}

func newMockDocRepo() *mockDocRepo {
	return &mockDocRepo{byID: map[uuid.UUID]document.Document{}}
}

func (m *mockDocRepo) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]document.Document, 0, len(m.byID))
	for _, d := range m.byID {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (m *mockDocRepo) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (m *mockDocRepo) GetByNumber(ctx context.Context, targetID uuid.UUID, number string) (document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byID {
		if d.TargetID() == targetID && d.DocumentNumber() == number {
			return d, nil
		}
	}
	return document.Document{}, document.ErrNotFound
}

func (m *mockDocRepo) ListExpiring(ctx context.Context, before time.Time) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, d := range m.byID {
		if d.ExpiryDate() != nil && !d.ExpiryDate().After(before) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDocRepo) Create(ctx context.Context, d document.Document) (document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.TargetID() == d.TargetID() && existing.DocumentNumber() == d.DocumentNumber() {
			return document.Document{}, document.ErrNumberTaken
		}
	}
	created := document.Hydrate(
		uuid.New(), d.Kind(), d.TargetType(), d.TargetID(),
		d.Title(), d.DocumentNumber(), d.Issuer(),
		d.IssueDate(), d.ExpiryDate(), d.ExtractedFields(),
		"", "", document.UploadPending, time.Now(), time.Now(),
	)
	m.byID[created.ID()] = created
	return created, nil
}

func (m *mockDocRepo) Update(ctx context.Context, d document.Document) (document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[d.ID()]; !ok {
		return document.Document{}, document.ErrNotFound
	}
	m.byID[d.ID()] = d
	return d, nil
}

func (m *mockDocRepo) SetUploadState(ctx context.Context, id uuid.UUID, status document.UploadStatus, fileID, webLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return document.ErrNotFound
	}
	m.byID[id] = document.Hydrate(
		d.ID(), d.Kind(), d.TargetType(), d.TargetID(),
		d.Title(), d.DocumentNumber(), d.Issuer(),
		d.IssueDate(), d.ExpiryDate(), d.ExtractedFields(),
		fileID, webLink, status, d.CreatedAt(), time.Now(),
	)
	return nil
}

func (m *mockDocRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return document.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// mockAnalyzer derives the document number from the filename so tests control
// duplicate detection through unit names.
type mockAnalyzer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (m *mockAnalyzer) Analyze(ctx context.Context, filename string, data []byte) (upload.Analysis, error) {
	m.mu.Lock()
	m.calls = append(m.calls, filename)
	m.mu.Unlock()
	if m.fail[filename] {
		return upload.Analysis{}, upload.ErrAnalysisFailed
	}
	number := strings.TrimSuffix(filename, ".pdf")
	return upload.Analysis{
		Title:          "Safety Management Certificate",
		DocumentNumber: number,
		Issuer:         "DNV",
		Fields:         map[string]string{"vessel": "MV Aurora"},
	}, nil
}

type mockStorage struct {
	mu    sync.Mutex
	saved []string
	fail  bool
}

func (m *mockStorage) Save(ctx context.Context, filename, contentType string, data []byte) (upload.StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return upload.StoredFile{}, upload.ErrStorageFailed
	}
	m.saved = append(m.saved, filename)
	return upload.StoredFile{FileID: "file-" + filename, WebLink: "https://drive.example.com/" + filename}, nil
}

func (m *mockStorage) Delete(ctx context.Context, fileID string) error {
	return nil
}

func (m *mockStorage) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func testConfig() BatchConfig {
	return BatchConfig{
		InterUnitDelay:    time.Millisecond,
		MaxUploadSize:     1 << 20,
		AllowedExtensions: []string{".pdf"},
		MaxUnits:          10,
		UploadWorkers:     2,
	}
}

func pdfUnit(name string) batch.Unit {
	data := []byte("%PDF-1.4 test document " + name)
	return batch.Unit{ID: uuid.NewString(), Name: name, Size: int64(len(data)), Data: data}
}

func newTestBatchService(repo *mockDocRepo, analyzer *mockAnalyzer, store *mockStorage, pub *stubPublisher) *BatchService {
	return NewBatchService(txContext(), repo, analyzer, store, pub, testConfig())
}

func TestBatchService_Upload(t *testing.T) {
	repo := newMockDocRepo()
	analyzer := &mockAnalyzer{}
	store := &mockStorage{}
	pub := &stubPublisher{}
	svc := newTestBatchService(repo, analyzer, store, pub)

	target := uuid.New()
	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindCertificate,
		TargetType: document.TargetShip,
		TargetID:   target,
		Units:      []batch.Unit{pdfUnit("smc-001.pdf"), pdfUnit("smc-002.pdf")},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.Equal(t, 2, resp.Report.SuccessCount)
	assert.Equal(t, 0, resp.Report.FailedCount)
	assert.Empty(t, resp.Rejections)
	require.Len(t, resp.Report.Results, 2)
	assert.Equal(t, "smc-001.pdf", resp.Report.Results[0].Name)
	assert.Equal(t, "smc-002.pdf", resp.Report.Results[1].Name)

	// files were analyzed in submission order
	assert.Equal(t, []string{"smc-001.pdf", "smc-002.pdf"}, analyzer.calls)

	// uploads settled after Close: every record carries the stored link
	assert.Equal(t, 2, store.savedCount())
	docs, _, err := repo.GetPaginated(txContext(), nil)
	require.NoError(t, err)
	for _, d := range docs {
		assert.Equal(t, document.UploadUploaded, d.UploadStatus())
		assert.NotEmpty(t, d.WebLink())
		assert.Equal(t, "Safety Management Certificate", d.Title())
	}
}

func TestBatchService_DetectsDuplicates(t *testing.T) {
	repo := newMockDocRepo()
	svc := newTestBatchService(repo, &mockAnalyzer{}, &mockStorage{}, &stubPublisher{})

	target := uuid.New()
	// two distinct files resolving to the same document number
	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindCertificate,
		TargetType: document.TargetShip,
		TargetID:   target,
		Units:      []batch.Unit{pdfUnit("smc-001.pdf"), pdfUnit("smc-001.pdf")},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.Equal(t, 1, resp.Report.SuccessCount)
	assert.Equal(t, 1, resp.Report.FailedCount)
	require.Len(t, resp.Report.Results, 2)
	assert.True(t, resp.Report.Results[0].Success)
	assert.Equal(t, batch.ReasonDuplicate, resp.Report.Results[1].Reason)
	assert.Equal(t, resp.Report.Results[0].CreatedID, resp.Report.Results[1].CreatedID)
}

func TestBatchService_AnalyzerFailureIsolated(t *testing.T) {
	repo := newMockDocRepo()
	analyzer := &mockAnalyzer{fail: map[string]bool{"smc-002.pdf": true}}
	svc := newTestBatchService(repo, analyzer, &mockStorage{}, &stubPublisher{})

	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindAudit,
		TargetType: document.TargetShip,
		TargetID:   uuid.New(),
		Units:      []batch.Unit{pdfUnit("smc-001.pdf"), pdfUnit("smc-002.pdf"), pdfUnit("smc-003.pdf")},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.Equal(t, 2, resp.Report.SuccessCount)
	assert.Equal(t, 1, resp.Report.FailedCount)
	assert.True(t, resp.Report.Partial())
	assert.Equal(t, batch.ReasonError, resp.Report.Results[1].Reason)
	// the failure in the middle never stopped the third unit
	assert.True(t, resp.Report.Results[2].Success)
}

func TestBatchService_RejectsInvalidFiles(t *testing.T) {
	svc := newTestBatchService(newMockDocRepo(), &mockAnalyzer{}, &mockStorage{}, &stubPublisher{})

	exe := batch.Unit{ID: uuid.NewString(), Name: "virus.exe", Size: 10, Data: []byte("MZ payload")}
	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindSurvey,
		TargetType: document.TargetShip,
		TargetID:   uuid.New(),
		Units:      []batch.Unit{exe, pdfUnit("survey.pdf")},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	require.Len(t, resp.Rejections, 1)
	assert.Equal(t, "virus.exe", resp.Rejections[0].Name)
	assert.Equal(t, 1, resp.Report.SuccessCount)
}

func TestBatchService_RejectsBadRequest(t *testing.T) {
	svc := newTestBatchService(newMockDocRepo(), &mockAnalyzer{}, &mockStorage{}, &stubPublisher{})

	_, err := svc.Upload(txContext(), BatchRequest{
		Kind:       "passport",
		TargetType: document.TargetShip,
		TargetID:   uuid.New(),
	})
	svcErr, ok := serrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "DOCS_INVALID_KIND", svcErr.Code)

	units := make([]batch.Unit, 11)
	for i := range units {
		units[i] = pdfUnit(uuid.NewString() + ".pdf")
	}
	_, err = svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindCertificate,
		TargetType: document.TargetShip,
		TargetID:   uuid.New(),
		Units:      units,
	})
	svcErr, ok = serrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "DOCS_TOO_MANY_FILES", svcErr.Code)

	require.NoError(t, svc.Close())
}

func TestBatchService_UploadFailureMarksRecordFailed(t *testing.T) {
	repo := newMockDocRepo()
	store := &mockStorage{fail: true}
	pub := &stubPublisher{}
	svc := newTestBatchService(repo, &mockAnalyzer{}, store, pub)

	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindCertificate,
		TargetType: document.TargetCrew,
		TargetID:   uuid.New(),
		Units:      []batch.Unit{pdfUnit("stcw.pdf")},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	// the batch itself succeeded: record creation and file upload are
	// independent outcomes
	assert.Equal(t, 1, resp.Report.SuccessCount)

	id, err := uuid.Parse(resp.Report.Results[0].CreatedID)
	require.NoError(t, err)
	d, err := repo.GetByID(txContext(), id)
	require.NoError(t, err)
	assert.Equal(t, document.UploadFailed, d.UploadStatus())

	var settled *document.UploadedEvent
	for _, ev := range pub.events() {
		if e, ok := ev.(document.UploadedEvent); ok {
			settled = &e
		}
	}
	require.NotNil(t, settled)
	assert.Equal(t, document.UploadFailed, settled.Status)
	assert.NotEmpty(t, settled.Error)
}

func TestBatchService_EmptyBatch(t *testing.T) {
	svc := newTestBatchService(newMockDocRepo(), &mockAnalyzer{}, &mockStorage{}, &stubPublisher{})

	resp, err := svc.Upload(txContext(), BatchRequest{
		Kind:       document.KindCertificate,
		TargetType: document.TargetShip,
		TargetID:   uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.True(t, resp.Report.Empty)
	assert.Empty(t, resp.Report.Results)
}
