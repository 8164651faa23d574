package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/config"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	auth *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.auth = NewAuthService(s.db, &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	})
}

func (s *AuthServiceTestSuite) TestRegisterAndLogin() {
	resp, err := s.auth.Register(&RegisterRequest{
		Email:       "Owner@Example.com",
		Password:    "correct horse",
		DisplayName: "Owner",
	})
	s.Require().NoError(err)
	s.Equal("owner@example.com", resp.User.Email)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal("Bearer", resp.TokenType)

	login, err := s.auth.Login(&LoginRequest{Email: "owner@example.com", Password: "correct horse"})
	s.Require().NoError(err)
	s.NotNil(login.User.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.auth.Register(&RegisterRequest{Email: "a@example.com", Password: "longenough"})
	s.Require().NoError(err)

	_, err = s.auth.Register(&RegisterRequest{Email: "a@example.com", Password: "longenough"})
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := s.auth.Register(&RegisterRequest{Email: "a@example.com", Password: "longenough"})
	s.Require().NoError(err)

	_, err = s.auth.Login(&LoginRequest{Email: "a@example.com", Password: "wrong password"})
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.auth.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *AuthServiceTestSuite) TestRefresh() {
	resp, err := s.auth.Register(&RegisterRequest{Email: "a@example.com", Password: "longenough"})
	s.Require().NoError(err)

	refreshed, err := s.auth.Refresh(resp.RefreshToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, refreshed.User.ID)

	_, err = s.auth.Refresh("not-a-token")
	s.ErrorIs(err, ErrUnauthenticated)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
