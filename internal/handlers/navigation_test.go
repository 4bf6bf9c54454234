package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	"github.com/keithshino/one-on-one-supporter/internal/database"
	"github.com/keithshino/one-on-one-supporter/internal/events"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/navigation"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NavigationHandlerTestSuite defines the test suite for NavigationHandler
type NavigationHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *NavigationHandler
	authService *services.AuthService
}

// SetupTest runs before each test
func (suite *NavigationHandlerTestSuite) SetupTest() {
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
	logRepo := repository.NewLogRepository(suite.db)
	hub := events.NewHub()
	suite.authService = services.NewAuthService(memberRepo, "")
	memberService := services.NewMemberService(memberRepo, hub)
	logService := services.NewLogService(logRepo, memberRepo, hub)
	suite.handler = NewNavigationHandler(memberService, logService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *NavigationHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NavigationHandlerTestSuite) createTestMember(name, email string, managerID *string, isAdmin bool) *models.Member {
	member := &models.Member{
		Name:      name,
		Email:     email,
		ManagerID: managerID,
		IsAdmin:   isAdmin,
	}
	suite.Require().NoError(suite.db.Create(member).Error)
	return member
}

func (suite *NavigationHandlerTestSuite) createTestLog(memberID string) *models.Log {
	log := &models.Log{
		MemberID: memberID,
		Date:     time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	suite.Require().NoError(suite.db.Create(log).Error)
	return log
}

// navClient drives the navigation endpoints while carrying the session
// cookie between requests, the way a browser would.
type navClient struct {
	suite   *NavigationHandlerTestSuite
	router  *gin.Engine
	cookies []*http.Cookie
}

func (suite *NavigationHandlerTestSuite) newClient(email string) *navClient {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(func(c *gin.Context) {
		sess, err := suite.authService.ResolveSession(email)
		suite.Require().NoError(err)
		c.Set(constants.ContextKeySession, sess)
		c.Next()
	})

	r.GET("/api/navigation", suite.handler.GetState)
	r.POST("/api/navigation/navigate", suite.handler.Navigate)
	r.POST("/api/navigation/select-member", suite.handler.SelectMember)
	r.POST("/api/navigation/select-member-profile", suite.handler.SelectMemberForProfile)
	r.POST("/api/navigation/create-log", suite.handler.CreateLog)
	r.POST("/api/navigation/select-log", suite.handler.SelectLog)
	r.POST("/api/navigation/save-log", suite.handler.SaveLog)
	r.POST("/api/navigation/back", suite.handler.Back)
	r.POST("/api/navigation/scope", suite.handler.SetScope)

	return &navClient{suite: suite, router: r}
}

func (c *navClient) do(method, url string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		c.suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func (c *navClient) state(w *httptest.ResponseRecorder) navigation.State {
	var state navigation.State
	c.suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func (suite *NavigationHandlerTestSuite) TestGetState_Initial() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("GET", "/api/navigation", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewDashboard, state.View)
	assert.Empty(suite.T(), state.SelectedMemberID)
	assert.Empty(suite.T(), state.SelectedLogID)
}

func (suite *NavigationHandlerTestSuite) TestNavigate_PersistsAcrossRequests() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/navigate", map[string]string{"view": "members"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = client.do("GET", "/api/navigation", nil)
	assert.Equal(suite.T(), navigation.ViewMembers, client.state(w).View)
}

func (suite *NavigationHandlerTestSuite) TestNavigate_UnknownViewRejected() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/navigate", map[string]string{"view": "settings"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *NavigationHandlerTestSuite) TestSelectMember_OpensDetail() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	report := suite.createTestMember("Report", "report@example.com", &lead.ID, false)

	client := suite.newClient("lead@example.com")
	w := client.do("POST", "/api/navigation/select-member", map[string]string{"member_id": report.ID})

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewMemberDetail, state.View)
	assert.Equal(suite.T(), report.ID, state.SelectedMemberID)
}

func (suite *NavigationHandlerTestSuite) TestSelectMember_UnknownIsNoOp() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/select-member", map[string]string{"member_id": "no-such-member"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewDashboard, state.View)
	assert.Empty(suite.T(), state.SelectedMemberID)
}

func (suite *NavigationHandlerTestSuite) TestCreateLog_DeletedMemberIsNoOp() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)
	target := suite.createTestMember("Target", "target@example.com", nil, false)

	// The target disappears between rendering the button and pressing it.
	suite.Require().NoError(suite.db.Delete(&models.Member{}, "id = ?", target.ID).Error)

	client := suite.newClient("admin@example.com")
	w := client.do("POST", "/api/navigation/create-log", map[string]string{"member_id": target.ID})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewDashboard, state.View)
	assert.Empty(suite.T(), state.SelectedMemberID)
}

func (suite *NavigationHandlerTestSuite) TestEditorFlow_CreateSaveBack() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	report := suite.createTestMember("Report", "report@example.com", &lead.ID, false)

	client := suite.newClient("lead@example.com")

	w := client.do("POST", "/api/navigation/create-log", map[string]string{"member_id": report.ID})
	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewEditor, state.View)
	assert.Equal(suite.T(), report.ID, state.SelectedMemberID)
	assert.Empty(suite.T(), state.SelectedLogID)

	w = client.do("POST", "/api/navigation/save-log", nil)
	state = client.state(w)
	assert.Equal(suite.T(), navigation.ViewMemberDetail, state.View)
	assert.Equal(suite.T(), report.ID, state.SelectedMemberID)

	w = client.do("POST", "/api/navigation/back", nil)
	state = client.state(w)
	assert.Equal(suite.T(), navigation.ViewMembers, state.View)
	assert.Empty(suite.T(), state.SelectedMemberID)
}

func (suite *NavigationHandlerTestSuite) TestSelectLog_OpensEditor() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	report := suite.createTestMember("Report", "report@example.com", &lead.ID, false)
	log := suite.createTestLog(report.ID)

	client := suite.newClient("lead@example.com")
	w := client.do("POST", "/api/navigation/select-log", map[string]string{"log_id": log.ID})

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewEditor, state.View)
	assert.Equal(suite.T(), report.ID, state.SelectedMemberID)
	assert.Equal(suite.T(), log.ID, state.SelectedLogID)
}

func (suite *NavigationHandlerTestSuite) TestSelectLog_MissingLogIsNoOp() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/select-log", map[string]string{"log_id": "no-such-log"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), navigation.ViewDashboard, client.state(w).View)
}

func (suite *NavigationHandlerTestSuite) TestSelectLog_ForbiddenForOutsider() {
	suite.createTestMember("Member", "member@example.com", nil, false)
	other := suite.createTestMember("Other", "other@example.com", nil, false)
	log := suite.createTestLog(other.ID)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/select-log", map[string]string{"log_id": log.ID})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *NavigationHandlerTestSuite) TestNavigateMyProfile_ClearsSelection() {
	lead := suite.createTestMember("Lead", "lead@example.com", nil, false)
	report := suite.createTestMember("Report", "report@example.com", &lead.ID, false)

	client := suite.newClient("lead@example.com")
	client.do("POST", "/api/navigation/select-member", map[string]string{"member_id": report.ID})

	w := client.do("POST", "/api/navigation/navigate", map[string]interface{}{
		"view":                "profile",
		"from_profile_avatar": true,
	})

	state := client.state(w)
	assert.Equal(suite.T(), navigation.ViewProfile, state.View)
	assert.Empty(suite.T(), state.SelectedMemberID, "my profile must never show a third party")
}

func (suite *NavigationHandlerTestSuite) TestSetScope_AdminPersists() {
	suite.createTestMember("Admin", "admin@example.com", nil, true)

	client := suite.newClient("admin@example.com")
	w := client.do("POST", "/api/navigation/scope", map[string]string{"scope": "team"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// The scope survives navigation.
	client.do("POST", "/api/navigation/navigate", map[string]string{"view": "members"})
	w = client.do("GET", "/api/navigation", nil)
	assert.Equal(suite.T(), "team", string(client.state(w).AdminViewScope))
}

func (suite *NavigationHandlerTestSuite) TestSetScope_NonAdminForbidden() {
	suite.createTestMember("Member", "member@example.com", nil, false)

	client := suite.newClient("member@example.com")
	w := client.do("POST", "/api/navigation/scope", map[string]string{"scope": "team"})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestNavigationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(NavigationHandlerTestSuite))
}
