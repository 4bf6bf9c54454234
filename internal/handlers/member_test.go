package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	"github.com/keithshino/one-on-one-supporter/internal/database"
	"github.com/keithshino/one-on-one-supporter/internal/dto"
	"github.com/keithshino/one-on-one-supporter/internal/events"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemberHandlerTestSuite defines the test suite for MemberHandler
type MemberHandlerTestSuite struct {
	suite.Suite
	db            *gorm.DB
	handler       *MemberHandler
	authService   *services.AuthService
	memberService *services.MemberService
}

// SetupTest runs before each test
func (suite *MemberHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Member{},
		&models.Log{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	memberRepo := repository.NewMemberRepository(suite.db)
	suite.authService = services.NewAuthService(memberRepo, "")
	suite.memberService = services.NewMemberService(memberRepo, events.NewHub())
	suite.handler = NewMemberHandler(suite.memberService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *MemberHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MemberHandlerTestSuite) createTestMember(name, email string, managerID *string, isAdmin bool) *models.Member {
	member := &models.Member{
		Name:      name,
		Email:     email,
		ManagerID: managerID,
		IsAdmin:   isAdmin,
	}
	suite.Require().NoError(suite.db.Create(member).Error)
	return member
}

// newRouter builds a router whose requests run as the member behind email,
// the way RequireAuth plus RequireProvisioned would set things up.
func (suite *MemberHandlerTestSuite) newRouter(email string) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(func(c *gin.Context) {
		sess, err := suite.authService.ResolveSession(email)
		suite.Require().NoError(err)
		c.Set(constants.ContextKeySession, sess)
		c.Next()
	})

	r.GET("/api/members", suite.handler.ListMembers)
	r.GET("/api/members/directory", suite.handler.ListDirectory)
	r.GET("/api/members/:id", suite.handler.GetMember)
	r.POST("/api/members", suite.handler.CreateMember)
	r.PATCH("/api/members/:id", suite.handler.UpdateMember)
	r.DELETE("/api/members/:id", suite.handler.DeleteMember)
	return r
}

func (suite *MemberHandlerTestSuite) doRequest(r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *MemberHandlerTestSuite) listedNames(w *httptest.ResponseRecorder) []string {
	var response struct {
		Members []dto.MemberDTO `json:"members"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	names := make([]string, len(response.Members))
	for i, m := range response.Members {
		names[i] = m.Name
	}
	return names
}

func (suite *MemberHandlerTestSuite) TestListMembers_AdminSeesEveryone() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	suite.createTestMember("Report", "report@example.com", &lead.ID, false)

	r := suite.newRouter("admin@example.com")
	w := suite.doRequest(r, "GET", "/api/members", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{"Admin", "Lead", "Report"}, suite.listedNames(w))
}

func (suite *MemberHandlerTestSuite) TestListMembers_AdminTeamScope() {
	admin := suite.createTestMember("Admin", "admin@example.com", nil, true)
	suite.createTestMember("Own Report", "own@example.com", &admin.ID, false)
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	suite.createTestMember("Other Report", "other@example.com", &lead.ID, false)

	r := suite.newRouter("admin@example.com")
	w := suite.doRequest(r, "GET", "/api/members?scope=team", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), []string{"Own Report"}, suite.listedNames(w))
}

func (suite *MemberHandlerTestSuite) TestListMembers_ManagerSeesOnlyReports() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	suite.createTestMember("Report A", "a@example.com", &lead.ID, false)
	suite.createTestMember("Report B", "b@example.com", &lead.ID, false)
	suite.createTestMember("Unrelated", "c@example.com", nil, false)

	r := suite.newRouter("lead@example.com")
	// A manager's reach ignores the scope parameter entirely.
	w := suite.doRequest(r, "GET", "/api/members?scope=all", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{"Report A", "Report B"}, suite.listedNames(w))
}

func (suite *MemberHandlerTestSuite) TestListMembers_PlainMemberSeesNobody() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	suite.createTestMember("Report", "report@example.com", &lead.ID, false)

	r := suite.newRouter("report@example.com")
	w := suite.doRequest(r, "GET", "/api/members", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), suite.listedNames(w))
}

func (suite *MemberHandlerTestSuite) TestListDirectory_OpenToAll() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	suite.createTestMember("Report", "report@example.com", &lead.ID, false)
	suite.createTestMember("Unrelated", "other@example.com", nil, false)

	r := suite.newRouter("report@example.com")
	w := suite.doRequest(r, "GET", "/api/members/directory", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Len(suite.T(), suite.listedNames(w), 3)
}

func (suite *MemberHandlerTestSuite) TestCreateMember_AdminOnly() {
	suite.createTestMember("Regular", "regular@example.com", nil, false)

	r := suite.newRouter("regular@example.com")
	w := suite.doRequest(r, "POST", "/api/members", map[string]interface{}{
		"name":  "New Member",
		"email": "new@example.com",
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *MemberHandlerTestSuite) TestCreateMember_Success() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)

	r := suite.newRouter("admin@example.com")
	w := suite.doRequest(r, "POST", "/api/members", map[string]interface{}{
		"name":       "New Member",
		"email":      "new@example.com",
		"role":       "Engineer",
		"department": "Platform",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.MemberDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(suite.T(), response.ID)
	assert.Equal(suite.T(), "New Member", response.Name)
	assert.Equal(suite.T(), "Engineer", response.Role)
}

func (suite *MemberHandlerTestSuite) TestCreateMember_UnknownManagerRejected() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)

	r := suite.newRouter("admin@example.com")
	w := suite.doRequest(r, "POST", "/api/members", map[string]interface{}{
		"name":       "New Member",
		"email":      "new@example.com",
		"manager_id": "no-such-member",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *MemberHandlerTestSuite) TestUpdateMember_SelfProfile() {
	member := suite.createTestMember("Regular", "regular@example.com", nil, false)

	r := suite.newRouter("regular@example.com")
	w := suite.doRequest(r, "PATCH", "/api/members/"+member.ID, map[string]interface{}{
		"dream": "Ship something people love",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MemberDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Ship something people love", response.Dream)
}

func (suite *MemberHandlerTestSuite) TestUpdateMember_SelfCannotTouchAdminFields() {
	member := suite.createTestMember("Regular", "regular@example.com", nil, false)

	r := suite.newRouter("regular@example.com")
	w := suite.doRequest(r, "PATCH", "/api/members/"+member.ID, map[string]interface{}{
		"is_admin": true,
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *MemberHandlerTestSuite) TestUpdateMember_OtherProfileForbidden() {
	suite.createTestMember("Regular", "regular@example.com", nil, false)
	other := suite.createTestMember("Other", "other@example.com", nil, false)

	r := suite.newRouter("regular@example.com")
	w := suite.doRequest(r, "PATCH", "/api/members/"+other.ID, map[string]interface{}{
		"dream": "Not yours to write",
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *MemberHandlerTestSuite) TestDeleteMember_LogsSurvive() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)
	target := suite.createTestMember("Target", "target@example.com", nil, false)
	suite.Require().NoError(suite.db.Create(&models.Log{MemberID: target.ID}).Error)

	r := suite.newRouter("admin@example.com")
	w := suite.doRequest(r, "DELETE", "/api/members/"+target.ID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.doRequest(r, "GET", "/api/members/"+target.ID, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var logCount int64
	suite.Require().NoError(suite.db.Model(&models.Log{}).Where("member_id = ?", target.ID).Count(&logCount).Error)
	assert.Equal(suite.T(), int64(1), logCount, "deleting a member must not cascade to their logs")
}

func (suite *MemberHandlerTestSuite) TestDeleteMember_NonAdminForbidden() {
	suite.createTestMember("Regular", "regular@example.com", nil, false)
	target := suite.createTestMember("Target", "target@example.com", nil, false)

	r := suite.newRouter("regular@example.com")
	w := suite.doRequest(r, "DELETE", "/api/members/"+target.ID, nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestMemberHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MemberHandlerTestSuite))
}
