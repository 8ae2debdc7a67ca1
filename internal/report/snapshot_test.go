package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/servicereport/internal/storage"
)

func populatedStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(storage.NewMemStore())
	require.NoError(t, store.SetAdmin(Admin{
		ReportNumber: "SR-2024-017",
		ReportDate:   "2024-06-12",
		OrderNumber:  "ORD-551",
		Technician:   "M. Weber",
	}))
	require.NoError(t, store.SetCustomer(Customer{Company: "Acme Pumps", System: "PX-300"}))
	require.NoError(t, store.SetJobTypes(JobTypes{Repair: true, Warranty: true}))
	require.NoError(t, store.SetServiceTypes(ServiceTypes{Emergency: true}))
	require.NoError(t, store.SetWorkPerformed("Replaced main seal and flushed the circuit."))
	require.NoError(t, store.AddPart(Part{Quantity: 1, ArticleNumber: "A-113", Description: "Seal kit"}))
	require.NoError(t, store.AddPhotos([]Photo{
		{ID: "p1", Image: "data:image/png;base64,aGVsbG8=", Caption: "before"},
		{ID: "p2", Image: "data:image/png;base64,d29ybGQ=", Caption: "after"},
	}))
	require.NoError(t, store.SetTechnicianSignature(Signature{Name: "M. Weber", Image: "data:image/png;base64,c2ln"}))
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := populatedStore(t)
	before := store.Report()

	data, err := store.Snapshot()
	require.NoError(t, err)

	other := NewStore(storage.NewMemStore())
	require.NoError(t, other.ImportSnapshot(data))

	// Field-for-field equality, embedded images and photo order included.
	assert.Equal(t, before, other.Report())
}

func TestImportInvalidJSONLeavesRecordUnchanged(t *testing.T) {
	store := populatedStore(t)
	before, err := store.Snapshot()
	require.NoError(t, err)

	err = store.ImportSnapshot([]byte(`{"admin": `))
	require.Error(t, err)

	after, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportAcceptsMissingFields(t *testing.T) {
	store := populatedStore(t)

	// Valid JSON with most fields absent replaces the record wholesale.
	require.NoError(t, store.ImportSnapshot([]byte(`{"admin":{"report_number":"SR-9"}}`)))

	r := store.Report()
	assert.Equal(t, "SR-9", r.Admin.ReportNumber)
	assert.Empty(t, r.Customer.Company)
	assert.Empty(t, r.Parts)
	assert.Empty(t, r.Photos)
}

func TestImportPersistsReplacedRecord(t *testing.T) {
	mem := storage.NewMemStore()
	store := NewStore(mem)
	require.NoError(t, store.ImportSnapshot([]byte(`{"admin":{"report_number":"SR-9"}}`)))

	reloaded := NewStore(mem)
	assert.Equal(t, "SR-9", reloaded.Report().Admin.ReportNumber)
}

func TestWriteSnapshotUsesDocumentName(t *testing.T) {
	store := populatedStore(t)
	dir := t.TempDir()

	path, err := store.WriteSnapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "SR-2024-017.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	other := NewStore(storage.NewMemStore())
	require.NoError(t, other.ImportSnapshot(data))
	assert.Equal(t, store.Report(), other.Report())
}
