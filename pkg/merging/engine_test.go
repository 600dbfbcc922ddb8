package merging

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgroundhq/trellis/pkg/models"
)

type fakeCompanyStore struct {
	companies map[string]*models.Company
	updates   map[string]map[string]any
	deleted   []string
	deleteErr error
	updateErr error
}

func (f *fakeCompanyStore) Get(ctx context.Context, id string) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCompanyStore) UpdateMergedFields(ctx context.Context, id string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = make(map[string]map[string]any)
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeCompanyStore) SoftDelete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.companies, id)
	return nil
}

type fakeTagStore struct {
	associations map[string][]models.CompanyTag
	inserted     map[string][]string
	listErr      error
}

func (f *fakeTagStore) ListAssociations(ctx context.Context, companyID string) ([]models.CompanyTag, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.associations[companyID], nil
}

func (f *fakeTagStore) InsertAssociations(ctx context.Context, companyID string, tagIDs []string) error {
	if f.inserted == nil {
		f.inserted = make(map[string][]string)
	}
	f.inserted[companyID] = append(f.inserted[companyID], tagIDs...)
	return nil
}

type fakeAssignmentStore struct {
	assignments map[string][]models.Assignment
	inserted    []models.Assignment
}

func (f *fakeAssignmentStore) ListByCompany(ctx context.Context, companyID string) ([]models.Assignment, error) {
	return f.assignments[companyID], nil
}

func (f *fakeAssignmentStore) Insert(ctx context.Context, companyID, userID, role string) error {
	f.inserted = append(f.inserted, models.Assignment{CompanyID: companyID, UserID: userID, Role: role})
	return nil
}

type fakeNoteStore struct {
	notes    map[string][]models.Note
	inserted []models.Note
}

func (f *fakeNoteStore) ListByCompany(ctx context.Context, companyID string) ([]models.Note, error) {
	return f.notes[companyID], nil
}

func (f *fakeNoteStore) Insert(ctx context.Context, companyID, authorID, content string) error {
	f.inserted = append(f.inserted, models.Note{CompanyID: companyID, AuthorID: authorID, Content: content})
	return nil
}

type fakeMergeLogStore struct {
	entries   []models.MergeLog
	insertErr error
}

func (f *fakeMergeLogStore) Insert(ctx context.Context, log models.MergeLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, log)
	return nil
}

type testStores struct {
	companies   *fakeCompanyStore
	tags        *fakeTagStore
	assignments *fakeAssignmentStore
	notes       *fakeNoteStore
	mergeLogs   *fakeMergeLogStore
}

func newTestEngine(companies map[string]*models.Company) (*Engine, *testStores) {
	stores := &testStores{
		companies:   &fakeCompanyStore{companies: companies},
		tags:        &fakeTagStore{associations: make(map[string][]models.CompanyTag)},
		assignments: &fakeAssignmentStore{assignments: make(map[string][]models.Assignment)},
		notes:       &fakeNoteStore{notes: make(map[string][]models.Note)},
		mergeLogs:   &fakeMergeLogStore{},
	}
	log := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
	engine := NewEngine(log, stores.companies, stores.tags, stores.assignments, stores.notes, stores.mergeLogs, nil)
	return engine, stores
}

func TestMergeSuccess(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation", Phone: "111", Status: models.StatusContacted},
		"d": {ID: "d", Name: "Acme Corp", ContactEmail: "sales@acme.com", Status: models.StatusComing},
	})

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	require.True(t, outcome.Success)
	assert.Equal(t, "Acme Corp was merged into Acme Corporation", outcome.Message)

	fields := stores.companies.updates["m"]
	require.NotNil(t, fields)
	// Master keeps its own name, status, and non-empty phone; empty email
	// falls back to the duplicate's value.
	assert.Equal(t, "Acme Corporation", fields["name"])
	assert.Equal(t, models.StatusContacted, fields["status"])
	assert.Equal(t, "111", fields["phone"])
	assert.Equal(t, "sales@acme.com", fields["contact_email"])

	assert.Equal(t, []string{"d"}, stores.companies.deleted)
	require.Len(t, stores.mergeLogs.entries, 1)
	assert.Equal(t, "m", stores.mergeLogs.entries[0].MasterID)
	assert.Equal(t, "d", stores.mergeLogs.entries[0].DuplicateID)
}

func TestMergeOverridesWin(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation", Phone: "111", Status: models.StatusContacted},
		"d": {ID: "d", Name: "Acme Corp", Phone: "222"},
	})

	name := "Acme Holdings"
	phone := "333"
	status := models.StatusComing
	outcome := engine.Merge(context.Background(), "m", "d", &models.FieldOverrides{
		Name:   &name,
		Phone:  &phone,
		Status: &status,
	})

	require.True(t, outcome.Success)
	fields := stores.companies.updates["m"]
	assert.Equal(t, "Acme Holdings", fields["name"])
	assert.Equal(t, "333", fields["phone"])
	assert.Equal(t, models.StatusComing, fields["status"])
}

func TestMergeMissingDuplicate(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
	})

	outcome := engine.Merge(context.Background(), "m", "gone", nil)

	assert.False(t, outcome.Success)
	assert.Equal(t, "cannot find one or both companies", outcome.Message)

	// No mutation of any kind happened.
	assert.Empty(t, stores.companies.updates)
	assert.Empty(t, stores.companies.deleted)
	assert.Empty(t, stores.tags.inserted)
	assert.Empty(t, stores.assignments.inserted)
	assert.Empty(t, stores.notes.inserted)
	assert.Empty(t, stores.mergeLogs.entries)
}

func TestMergeMissingMaster(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"d": {ID: "d", Name: "Acme Corp"},
	})

	outcome := engine.Merge(context.Background(), "gone", "d", nil)

	assert.False(t, outcome.Success)
	assert.Equal(t, "cannot find one or both companies", outcome.Message)
	assert.Empty(t, stores.companies.updates)
}

func TestMergeTagUnion(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.tags.associations["m"] = []models.CompanyTag{{CompanyID: "m", TagID: "t1"}, {CompanyID: "m", TagID: "t2"}}
	stores.tags.associations["d"] = []models.CompanyTag{{CompanyID: "d", TagID: "t2"}, {CompanyID: "d", TagID: "t3"}}

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	require.True(t, outcome.Success)
	// Only the tag the master was missing is inserted.
	assert.Equal(t, []string{"t3"}, stores.tags.inserted["m"])
}

func TestMergeAssignmentUnionKeepsMasterRole(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.assignments.assignments["m"] = []models.Assignment{{CompanyID: "m", UserID: "u1", Role: "owner"}}
	stores.assignments.assignments["d"] = []models.Assignment{
		{CompanyID: "d", UserID: "u1", Role: "viewer"},
		{CompanyID: "d", UserID: "u2", Role: "editor"},
	}

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	require.True(t, outcome.Success)
	// u1 already assigned to master; only u2 carries over, with its role.
	require.Len(t, stores.assignments.inserted, 1)
	assert.Equal(t, "u2", stores.assignments.inserted[0].UserID)
	assert.Equal(t, "editor", stores.assignments.inserted[0].Role)
	assert.Equal(t, "m", stores.assignments.inserted[0].CompanyID)
}

func TestMergeNoteCarryOver(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.notes.notes["d"] = []models.Note{
		{CompanyID: "d", AuthorID: "u1", Content: "called twice"},
	}

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	require.True(t, outcome.Success)
	require.Len(t, stores.notes.inserted, 1)
	assert.Equal(t, "m", stores.notes.inserted[0].CompanyID)
	assert.Equal(t, "u1", stores.notes.inserted[0].AuthorID)
	assert.Equal(t, "[Merged from Acme Corp] called twice", stores.notes.inserted[0].Content)
}

func TestMergeLogFailureIsSwallowed(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.mergeLogs.insertErr = errors.New("log table unavailable")

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	require.True(t, outcome.Success)
	assert.Equal(t, []string{"d"}, stores.companies.deleted)
}

func TestMergeDeleteFailureReportsFailure(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.companies.deleteErr = errors.New("record locked")

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	// Earlier steps already ran; the failed delete still fails the merge.
	assert.False(t, outcome.Success)
	assert.Equal(t, "merge failed: record locked", outcome.Message)
	assert.NotEmpty(t, stores.companies.updates)
}

func TestMergeUpdateFailureStopsEarly(t *testing.T) {
	engine, stores := newTestEngine(map[string]*models.Company{
		"m": {ID: "m", Name: "Acme Corporation"},
		"d": {ID: "d", Name: "Acme Corp"},
	})
	stores.companies.updateErr = errors.New("constraint violation")
	stores.notes.notes["d"] = []models.Note{{CompanyID: "d", Content: "orphan"}}

	outcome := engine.Merge(context.Background(), "m", "d", nil)

	assert.False(t, outcome.Success)
	assert.Equal(t, "merge failed: constraint violation", outcome.Message)
	assert.Empty(t, stores.notes.inserted)
	assert.Empty(t, stores.companies.deleted)
}

func TestResolveFieldsPrefersMasterThenDuplicate(t *testing.T) {
	master := &models.Company{ID: "m", Name: "Acme", ContactName: "", Phone: "111", Status: models.StatusContacted}
	duplicate := &models.Company{ID: "d", Name: "Acme Corp", ContactName: "Jane", Phone: "222", Status: models.StatusComing}

	fields := resolveFields(master, duplicate, nil)

	assert.Equal(t, "Acme", fields["name"])
	assert.Equal(t, "Jane", fields["contact_name"])
	assert.Equal(t, "111", fields["phone"])
	// Status never falls back to the duplicate.
	assert.Equal(t, models.StatusContacted, fields["status"])
}
