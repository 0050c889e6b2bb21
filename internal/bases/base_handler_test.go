package bases

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockBaseRepository struct {
	mock.Mock
}

func (m *MockBaseRepository) GetBases(actor scope.Actor) ([]models.Base, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Base), args.Error(1)
}

func (m *MockBaseRepository) GetBase(id int) (*models.Base, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Base), args.Error(1)
}

func (m *MockBaseRepository) PersistBase(req CreateBaseRequest) (*models.Base, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Base), args.Error(1)
}

func (m *MockBaseRepository) UpdateBase(id int, changes *BaseChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockBaseRepository) DeleteBase(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// collectingStore keeps persisted audit entries in memory so tests can
// assert on what the handlers recorded.
type collectingStore struct {
	entries []models.AuditLog
}

func (s *collectingStore) PersistEntry(entry models.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func setupRouter(repo BaseRepository, role, baseID string) (*gin.Engine, *collectingStore) {
	gin.SetMode(gin.TestMode)

	store := &collectingStore{}
	recorder := auditlog.NewRecorder(store, zap.NewNop())

	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "1")
		c.Set("role", role)
		if baseID != "" {
			c.Set("baseID", baseID)
		}
		c.Next()
	})
	NewHandler(repo, recorder).RegisterRoutes(group)

	return router, store
}

func TestGetBaseOutOfScopeIsForbidden(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, _ := setupRouter(mockRepo, "base_commander", "1")

	mockRepo.On("GetBase", 2).Return(&models.Base{ID: 2, Name: "Fort Bravo", Code: "FB"}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bases/2", nil)
	router.ServeHTTP(w, req)

	// The record exists but sits outside the caller's base.
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetBaseUnknownIDIsNotFound(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, _ := setupRouter(mockRepo, "admin", "")

	mockRepo.On("GetBase", 99).Return(nil, apperrors.NewNotFound("base")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bases/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBaseMalformedIDIsNotFound(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, _ := setupRouter(mockRepo, "admin", "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bases/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertNotCalled(t, "GetBase", mock.Anything)
}

func TestCreateBaseRecordsInsertAudit(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, store := setupRouter(mockRepo, "admin", "")

	created := &models.Base{ID: 3, Name: "Fort Charlie", Code: "FC"}
	mockRepo.On("PersistBase", mock.AnythingOfType("CreateBaseRequest")).Return(created, nil).Once()

	payload, _ := json.Marshal(gin.H{"name": "Fort Charlie", "code": "FC"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bases", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, store.entries, 1)
	assert.Equal(t, "bases", store.entries[0].TableName)
	assert.Equal(t, "INSERT", store.entries[0].Action)
	assert.Equal(t, 3, store.entries[0].RecordID)
	assert.Nil(t, store.entries[0].OldRaw)
	assert.NotNil(t, store.entries[0].NewRaw)
}

func TestCreateBaseForbiddenForNonAdmins(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, store := setupRouter(mockRepo, "logistics_officer", "1")

	payload, _ := json.Marshal(gin.H{"name": "Fort Charlie", "code": "FC"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bases", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.entries)
	mockRepo.AssertNotCalled(t, "PersistBase", mock.Anything)
}

func TestUpdateBaseRecordsBothSnapshots(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, store := setupRouter(mockRepo, "admin", "")

	before := &models.Base{ID: 3, Name: "Fort Charlie", Code: "FC"}
	after := &models.Base{ID: 3, Name: "Fort Charlie East", Code: "FC"}
	mockRepo.On("GetBase", 3).Return(before, nil).Once()
	mockRepo.On("UpdateBase", 3, mock.AnythingOfType("*bases.BaseChanges")).Return(nil).Once()
	mockRepo.On("GetBase", 3).Return(after, nil).Once()

	payload, _ := json.Marshal(gin.H{"name": "Fort Charlie East"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/bases/3", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.entries, 1)
	assert.Equal(t, "UPDATE", store.entries[0].Action)

	var oldValues, newValues map[string]interface{}
	assert.NoError(t, json.Unmarshal(store.entries[0].OldRaw, &oldValues))
	assert.NoError(t, json.Unmarshal(store.entries[0].NewRaw, &newValues))
	assert.Equal(t, "Fort Charlie", oldValues["name"])
	assert.Equal(t, "Fort Charlie East", newValues["name"])
}

func TestDeleteBaseRecordsDeleteAudit(t *testing.T) {
	mockRepo := new(MockBaseRepository)
	router, store := setupRouter(mockRepo, "admin", "")

	before := &models.Base{ID: 3, Name: "Fort Charlie", Code: "FC"}
	mockRepo.On("GetBase", 3).Return(before, nil).Once()
	mockRepo.On("DeleteBase", 3).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/bases/3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.entries, 1)
	assert.Equal(t, "DELETE", store.entries[0].Action)
	assert.NotNil(t, store.entries[0].OldRaw)
	assert.Nil(t, store.entries[0].NewRaw)
	mockRepo.AssertExpectations(t)
}
