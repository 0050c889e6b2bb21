package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"armory/pkg/auditlog"
	"armory/pkg/models"
	"armory/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte, baseID *int) (int, error) {
	args := m.Called(req, hashedPassword, baseID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

type noopStore struct{}

func (noopStore) PersistEntry(models.AuditLog) error { return nil }

func setupUserRouter(repo UserRepository, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "1")
		c.Set("role", role)
		c.Next()
	})
	NewHandler(repo, auditlog.NewRecorder(noopStore{}, zap.NewNop())).RegisterRoutes(group)

	return router
}

func TestCreateUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "admin")

	baseID := 2
	var hashed []byte
	mockRepo.On("PersistUser", mock.AnythingOfType("models.CreateUserRequest"), mock.AnythingOfType("[]uint8"), &baseID).
		Run(func(args mock.Arguments) {
			hashed = args.Get(1).([]byte)
		}).
		Return(5, nil).
		Once()
	mockRepo.On("GetUser", 5).Return(&models.User{
		ID:       5,
		Username: "kowalski",
		Email:    "kowalski@armory.mil",
		Role:     roles.LogisticsOfficer,
		BaseID:   &baseID,
	}, nil).Once()

	payload, _ := json.Marshal(gin.H{
		"username": "kowalski",
		"email":    "kowalski@armory.mil",
		"password": "s3cret-pass",
		"role":     "logistics_officer",
		"base_id":  2,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hashed, []byte("s3cret-pass")))
	assert.NotContains(t, w.Body.String(), "password")
	mockRepo.AssertExpectations(t)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "admin")

	payload, _ := json.Marshal(gin.H{
		"username": "kowalski",
		"email":    "kowalski@armory.mil",
		"password": "s3cret-pass",
		"role":     "quartermaster",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateUserRequiresBaseForScopedRoles(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "admin")

	payload, _ := json.Marshal(gin.H{
		"username": "kowalski",
		"email":    "kowalski@armory.mil",
		"password": "s3cret-pass",
		"role":     "base_commander",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAdminIgnoresBaseAssignment(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "admin")

	mockRepo.On("PersistUser", mock.AnythingOfType("models.CreateUserRequest"), mock.AnythingOfType("[]uint8"), (*int)(nil)).
		Return(6, nil).
		Once()
	mockRepo.On("GetUser", 6).Return(&models.User{
		ID:       6,
		Username: "chief",
		Email:    "chief@armory.mil",
		Role:     roles.Admin,
	}, nil).Once()

	payload, _ := json.Marshal(gin.H{
		"username": "chief",
		"email":    "chief@armory.mil",
		"password": "s3cret-pass",
		"role":     "admin",
		"base_id":  2,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestGetUserOthersForbiddenForNonAdmins(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "base_commander")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockRepo.AssertNotCalled(t, "GetUser", mock.Anything)
}

func TestGetUserSelfAllowedForNonAdmins(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "base_commander")

	baseID := 1
	mockRepo.On("GetUser", 1).Return(&models.User{
		ID:       1,
		Username: "self",
		Email:    "self@armory.mil",
		Role:     roles.BaseCommander,
		BaseID:   &baseID,
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupUserRouter(mockRepo, "admin")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/users/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "DeleteUser", mock.Anything)
}
