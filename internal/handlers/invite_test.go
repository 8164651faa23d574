package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boxport/boxport-backend/internal/config"
	"github.com/boxport/boxport-backend/internal/models"
	"github.com/boxport/boxport-backend/internal/services"
)

type InviteHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	userID uuid.UUID
	email  string
}

func (s *InviteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(
		&models.User{}, &models.Membership{}, &models.Invite{},
	))
	s.db = db

	user := &models.User{Email: "owner@example.com"}
	s.Require().NoError(user.SetPassword("longenough"))
	s.Require().NoError(db.Create(user).Error)
	s.userID = user.ID
	s.email = user.Email

	cfg := &config.Config{
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
	scopes := services.NewScopeService(db)
	handler := NewInviteHandler(services.NewInviteService(db, scopes), cfg)

	s.router = gin.New()
	api := s.router.Group("/api")
	api.Use(func(c *gin.Context) {
		// Stand-in for the JWT middleware.
		if c.GetHeader("X-Test-User") != "" {
			c.Set("user_id", c.GetHeader("X-Test-User"))
			c.Set("user_email", c.GetHeader("X-Test-Email"))
		}
		c.Next()
	})
	api.POST("/invite", handler.CreateInvite)
	api.POST("/accept-invite", handler.AcceptInvites)
}

func (s *InviteHandlerTestSuite) post(path string, body interface{}, asUser bool, email string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if asUser {
		req.Header.Set("X-Test-User", s.userID.String())
		req.Header.Set("X-Test-Email", email)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *InviteHandlerTestSuite) TestCreateInviteRequiresSession() {
	w := s.post("/api/invite", gin.H{"email": "friend@example.com"}, false, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *InviteHandlerTestSuite) TestCreateInviteInvalidEmail() {
	w := s.post("/api/invite", gin.H{"email": "not-an-email"}, true, s.email)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *InviteHandlerTestSuite) TestCreateInviteReturnsSignupLink() {
	w := s.post("/api/invite", gin.H{"email": "Friend@Example.com"}, true, s.email)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(true, resp["ok"])
	s.Equal("http://localhost:3000/signup?email=friend%40example.com", resp["link"])

	var count int64
	s.Require().NoError(s.db.Model(&models.Invite{}).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *InviteHandlerTestSuite) TestAcceptInviteEndToEnd() {
	inviter := &models.User{Email: "inviter@example.com"}
	s.Require().NoError(inviter.SetPassword("longenough"))
	s.Require().NoError(s.db.Create(inviter).Error)

	invite := &models.Invite{OwnerID: inviter.ID, Email: s.email, Role: models.MemberRoleEditor}
	s.Require().NoError(s.db.Create(invite).Error)

	w := s.post("/api/accept-invite", nil, true, s.email)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(true, resp["ok"])
	s.EqualValues(1, resp["accepted"])

	// Idempotent on repeat.
	w = s.post("/api/accept-invite", nil, true, s.email)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.EqualValues(0, resp["accepted"])
}

func (s *InviteHandlerTestSuite) TestAcceptInviteRequiresSession() {
	w := s.post("/api/accept-invite", nil, false, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func TestInviteHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InviteHandlerTestSuite))
}
