package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
)

func seedDocument(t *testing.T, repo *mockDocRepo, number string, expiry *time.Time) document.Document {
	t.Helper()
	created, err := repo.Create(txContext(), document.New(
		document.KindCertificate, document.TargetShip, uuid.New(),
		"Safety Management Certificate", number, "DNV",
		nil, expiry, map[string]string{},
	))
	require.NoError(t, err)
	return created
}

func TestDocumentService_CreateAndUpdate(t *testing.T) {
	repo := newMockDocRepo()
	pub := &stubPublisher{}
	svc := NewDocumentService(repo, &mockStorage{}, pub)

	created, err := svc.Create(txContext(), &document.CreateDTO{
		Kind:           document.KindAudit,
		TargetType:     document.TargetShip,
		TargetID:       uuid.New(),
		Title:          "ISM Audit Report",
		DocumentNumber: "ISM-2024-17",
		Issuer:         "Lloyd's Register",
	})
	require.NoError(t, err)
	assert.Equal(t, document.UploadPending, created.UploadStatus())

	updated, err := svc.Update(txContext(), created.ID(), &document.UpdateDTO{
		Title:  "ISM Interim Audit Report",
		Issuer: "Lloyd's Register",
	})
	require.NoError(t, err)
	assert.Equal(t, "ISM Interim Audit Report", updated.Title())
	// document number is immutable
	assert.Equal(t, "ISM-2024-17", updated.DocumentNumber())

	require.Len(t, pub.events(), 2)
}

func TestDocumentService_ListExpiring(t *testing.T) {
	repo := newMockDocRepo()
	svc := NewDocumentService(repo, &mockStorage{}, &stubPublisher{})

	soon := time.Now().Add(30 * 24 * time.Hour)
	later := time.Now().Add(400 * 24 * time.Hour)
	expiring := seedDocument(t, repo, "SMC-1", &soon)
	seedDocument(t, repo, "SMC-2", &later)
	seedDocument(t, repo, "SMC-3", nil)

	items, err := svc.ListExpiring(txContext(), 90*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, expiring.ID(), items[0].ID())
}

func TestDocumentService_DeleteRemovesStoredFile(t *testing.T) {
	repo := newMockDocRepo()
	store := &mockStorage{}
	svc := NewDocumentService(repo, store, &stubPublisher{})

	created := seedDocument(t, repo, "SMC-1", nil)
	require.NoError(t, repo.SetUploadState(txContext(), created.ID(), document.UploadUploaded, "file-1", "https://drive.example.com/f"))

	deleted, err := svc.Delete(txContext(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, "file-1", deleted.DriveFileID())

	_, err = svc.GetByID(txContext(), created.ID())
	require.ErrorIs(t, err, document.ErrNotFound)
}
