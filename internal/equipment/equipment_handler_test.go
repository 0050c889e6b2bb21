package equipment

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"armory/pkg/auditlog"
	"armory/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockEquipmentTypeRepository struct {
	mock.Mock
}

func (m *MockEquipmentTypeRepository) GetEquipmentTypes(category string) ([]models.EquipmentType, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EquipmentType), args.Error(1)
}

func (m *MockEquipmentTypeRepository) GetEquipmentType(id int) (*models.EquipmentType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EquipmentType), args.Error(1)
}

func (m *MockEquipmentTypeRepository) PersistEquipmentType(req CreateEquipmentTypeRequest) (*models.EquipmentType, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EquipmentType), args.Error(1)
}

func (m *MockEquipmentTypeRepository) UpdateEquipmentType(id int, changes *EquipmentTypeChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockEquipmentTypeRepository) DeleteEquipmentType(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

type noopStore struct{}

func (noopStore) PersistEntry(models.AuditLog) error { return nil }

func setupEquipmentRouter(repo EquipmentTypeRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "1")
		c.Set("role", "admin")
		c.Next()
	})
	NewHandler(repo, auditlog.NewRecorder(noopStore{}, zap.NewNop())).RegisterRoutes(group)

	return router
}

func TestGetEquipmentTypesCategoryFilter(t *testing.T) {
	mockRepo := new(MockEquipmentTypeRepository)
	router := setupEquipmentRouter(mockRepo)

	mockRepo.On("GetEquipmentTypes", "optics").Return([]models.EquipmentType{
		{ID: 1, Name: "Night Vision Goggles", Category: "optics"},
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/equipment-types?category=optics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Night Vision Goggles")
	mockRepo.AssertExpectations(t)
}

func TestGetEquipmentTypesUnfiltered(t *testing.T) {
	mockRepo := new(MockEquipmentTypeRepository)
	router := setupEquipmentRouter(mockRepo)

	mockRepo.On("GetEquipmentTypes", "").Return([]models.EquipmentType{}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/equipment-types", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
