package auditlog

import (
	"encoding/json"
	"errors"
	"testing"

	"armory/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) PersistEntry(entry models.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func testActor(userID int) *Actor {
	return &Actor{
		UserID:    &userID,
		IP:        "10.0.0.5",
		UserAgent: "curl/8.0",
	}
}

func TestRecordInsertHasOnlyNewValues(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, zap.NewNop())

	base := &models.Base{ID: 3, Name: "Fort Alpha", Code: "FA"}

	var captured models.AuditLog
	store.On("PersistEntry", mock.AnythingOfType("models.AuditLog")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(models.AuditLog)
		}).
		Return(nil).
		Once()

	recorder.Record(ActionInsert, testActor(7), base, nil, base)

	store.AssertExpectations(t)
	assert.Equal(t, "bases", captured.TableName)
	assert.Equal(t, 3, captured.RecordID)
	assert.Equal(t, "INSERT", captured.Action)
	assert.Nil(t, captured.OldRaw)
	assert.NotNil(t, captured.NewRaw)
	assert.Equal(t, 7, *captured.UserID)
	assert.Equal(t, "10.0.0.5", captured.IPAddress)
	assert.Equal(t, "curl/8.0", captured.UserAgent)

	var newValues map[string]interface{}
	assert.NoError(t, json.Unmarshal(captured.NewRaw, &newValues))
	assert.Equal(t, "Fort Alpha", newValues["name"])
}

func TestRecordUpdateCarriesBothSnapshots(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, zap.NewNop())

	before := &models.Base{ID: 3, Name: "Fort Alpha", Code: "FA"}
	after := &models.Base{ID: 3, Name: "Fort Alpha North", Code: "FA"}

	var captured models.AuditLog
	store.On("PersistEntry", mock.AnythingOfType("models.AuditLog")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(models.AuditLog)
		}).
		Return(nil).
		Once()

	recorder.Record(ActionUpdate, testActor(7), after, before, after)

	store.AssertExpectations(t)
	assert.Equal(t, "UPDATE", captured.Action)

	var oldValues, newValues map[string]interface{}
	assert.NoError(t, json.Unmarshal(captured.OldRaw, &oldValues))
	assert.NoError(t, json.Unmarshal(captured.NewRaw, &newValues))
	assert.Equal(t, "Fort Alpha", oldValues["name"])
	assert.Equal(t, "Fort Alpha North", newValues["name"])
}

func TestRecordDeleteHasOnlyOldValues(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, zap.NewNop())

	base := &models.Base{ID: 3, Name: "Fort Alpha", Code: "FA"}

	var captured models.AuditLog
	store.On("PersistEntry", mock.AnythingOfType("models.AuditLog")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(models.AuditLog)
		}).
		Return(nil).
		Once()

	recorder.Record(ActionDelete, testActor(7), base, base, nil)

	store.AssertExpectations(t)
	assert.Equal(t, "DELETE", captured.Action)
	assert.NotNil(t, captured.OldRaw)
	assert.Nil(t, captured.NewRaw)
}

func TestRecordSkipsWithoutActor(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, zap.NewNop())

	base := &models.Base{ID: 3, Name: "Fort Alpha", Code: "FA"}

	recorder.Record(ActionInsert, nil, base, nil, base)

	store.AssertNotCalled(t, "PersistEntry", mock.Anything)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, zap.NewNop())

	base := &models.Base{ID: 3, Name: "Fort Alpha", Code: "FA"}

	store.On("PersistEntry", mock.AnythingOfType("models.AuditLog")).
		Return(errors.New("connection reset")).
		Once()

	// Must not panic or surface the error to the caller.
	recorder.Record(ActionInsert, testActor(7), base, nil, base)

	store.AssertExpectations(t)
}
