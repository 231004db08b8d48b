package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fengin/umani/config"
	"github.com/fengin/umani/handlers"
	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/middleware"
	"github.com/fengin/umani/models"
	"github.com/fengin/umani/repositories"
	"github.com/fengin/umani/services"
)

const (
	fakeDraft    = "Hello\nWorld\n"
	fakeAnalysis = `{"modification_analysis":[{"type":"content added or removed","description":"inserted a line","intent":"more vivid"}],"new_rules":{"add_to_style_principles":["allow one vivid adjective per paragraph"]},"summary":"prefers an extra descriptive line"}`
	fakeStyle    = `{"voice":"a practicing engineer","tone":"direct","style_principles":["short sentences"],"blocklist_words":["leverage"],"blocklist_patterns":[],"habitual_terms":["tradeoff"]}`
)

type IntegrationTestSuite struct {
	suite.Suite
	db        *gorm.DB
	router    *gin.Engine
	llmServer *httptest.Server
	token     string

	skillRepo   repositories.SkillRepository
	articleRepo repositories.ArticleRepository
}

func (suite *IntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(suite.T().TempDir(), "umani_test.db")), &gorm.Config{})
	if err != nil {
		suite.T().Fatal("Failed to open test database:", err)
	}
	if err := config.Migrate(db); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}
	suite.db = db

	// Fake generation/analysis capability. Keys off prompt markers to
	// decide which canned reply to send.
	suite.llmServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []services.ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		prompt := req.Messages[0].Content

		var content string
		switch {
		case strings.Contains(prompt, "FAIL_ME"):
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "upstream boom")
			return
		case strings.Contains(prompt, "A user manually edited"):
			content = fakeAnalysis
		case strings.Contains(prompt, "Extract the author's writing style"):
			content = fakeStyle
		default:
			content = fakeDraft
		}

		reply := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))

	profileRepo := repositories.NewProfileRepository(db)
	if err := profileRepo.Save(&models.LLMProfile{
		Provider: "openai",
		Endpoint: suite.llmServer.URL,
		APIKey:   "test-key",
		Model:    "test-model",
	}); err != nil {
		suite.T().Fatal("Failed to seed llm profile:", err)
	}

	suite.setupRouter()
	suite.registerAndLogin()
}

func (suite *IntegrationTestSuite) setupRouter() {
	log := logger.NewNop()

	userRepo := repositories.NewUserRepository(suite.db)
	suite.skillRepo = repositories.NewSkillRepository(suite.db)
	suite.articleRepo = repositories.NewArticleRepository(suite.db)
	profileRepo := repositories.NewProfileRepository(suite.db)

	llmClient := services.NewLLMClient(log)
	authService := services.NewAuthService(userRepo)
	skillService := services.NewSkillService(suite.skillRepo, profileRepo, llmClient, log)
	articleService := services.NewArticleService(suite.articleRepo, suite.skillRepo, profileRepo, llmClient, log)
	settingsService := services.NewSettingsService(profileRepo, suite.skillRepo, suite.articleRepo, llmClient)

	authHandler := handlers.NewAuthHandler(authService)
	skillHandler := handlers.NewSkillHandler(skillService)
	articleHandler := handlers.NewArticleHandler(articleService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			skills := protected.Group("/skills")
			{
				skills.POST("", skillHandler.CreateSkill)
				skills.POST("/from-samples", skillHandler.CreateSkillFromSamples)
				skills.GET("", skillHandler.ListSkills)
				skills.GET("/:id", skillHandler.GetSkill)
				skills.PATCH("/:id", skillHandler.UpdateSkill)
				skills.DELETE("/:id", middleware.RequireRole("writer", "admin"), skillHandler.DeleteSkill)
				skills.POST("/:id/evolve", skillHandler.Evolve)
				skills.GET("/:id/versions", skillHandler.ListVersions)
				skills.GET("/:id/versions/:version", skillHandler.GetVersion)
				skills.GET("/:id/export/markdown", skillHandler.ExportMarkdown)
				skills.GET("/:id/export/json", skillHandler.ExportJSON)
			}

			articles := protected.Group("/articles")
			{
				articles.POST("/generate", articleHandler.GenerateArticle)
				articles.GET("", articleHandler.ListArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.SaveArticle)
				articles.POST("/:id/finalize", articleHandler.FinalizeArticle)
				articles.DELETE("/:id", middleware.RequireRole("writer", "admin"), articleHandler.DeleteArticle)
				articles.POST("/:id/analyze", articleHandler.AnalyzeDiff)
			}

			protected.POST("/diff", articleHandler.ComputeDiff)

			settings := protected.Group("/settings")
			{
				settings.GET("/llm", settingsHandler.GetLLMConfig)
				settings.PUT("/llm", settingsHandler.SaveLLMConfig)
				settings.POST("/llm/test", settingsHandler.TestConnection)
			}

			protected.GET("/onboarding", settingsHandler.OnboardingStatus)
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	suite.llmServer.Close()
}

func (suite *IntegrationTestSuite) registerAndLogin() {
	w := suite.request(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username": "writer1",
		"email":    "writer1@example.com",
		"password": "secret123",
	}, false)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotEmpty(resp.Data.Token)
	suite.token = resp.Data.Token
}

func (suite *IntegrationTestSuite) request(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) createSkill(name, content string) models.Skill {
	w := suite.request(http.MethodPost, "/api/v1/skills", map[string]interface{}{
		"name":             name,
		"content_markdown": content,
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var skill models.Skill
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &skill))
	return skill
}

func (suite *IntegrationTestSuite) TestAuthRequired() {
	w := suite.request(http.MethodGet, "/api/v1/skills", nil, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestCreateSkillHasVersionOne() {
	skill := suite.createSkill("create-v1", "initial content")
	suite.Equal(1, skill.CurrentVersion)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/versions/1", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	var version models.SkillVersion
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &version))
	suite.Equal("initial content", version.ContentMarkdown)
	suite.Equal(1, version.VersionNumber)
}

func (suite *IntegrationTestSuite) TestEvolveSequence() {
	skill := suite.createSkill("evolve-seq", "v1")

	for i := 2; i <= 4; i++ {
		w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/skills/%d/evolve", skill.ID), map[string]interface{}{
			"content_markdown": fmt.Sprintf("v%d", i),
			"change_summary":   "edit",
		}, true)
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		var version models.SkillVersion
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &version))
		suite.Equal(i, version.VersionNumber)
	}

	// Version 1 is untouched by evolution.
	w := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/versions/1", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	var first models.SkillVersion
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	suite.Equal("v1", first.ContentMarkdown)

	// Listing returns the dense chain newest first.
	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/versions", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Versions []models.SkillVersion `json:"versions"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	suite.Require().Len(listed.Versions, 4)
	for i, v := range listed.Versions {
		suite.Equal(4-i, v.VersionNumber)
	}
}

func (suite *IntegrationTestSuite) TestEvolveMissingSkill() {
	w := suite.request(http.MethodPost, "/api/v1/skills/99999/evolve", map[string]interface{}{
		"content_markdown": "x",
		"change_summary":   "x",
	}, true)
	suite.Equal(http.StatusNotFound, w.Code)

	count, err := suite.skillRepo.CountVersions(99999)
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *IntegrationTestSuite) TestGetMissingVersion() {
	skill := suite.createSkill("missing-version", "v1")
	w := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/versions/42", skill.ID), nil, true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestUpdateSkillMetadata() {
	skill := suite.createSkill("meta", "v1")

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/v1/skills/%d", skill.ID), map[string]interface{}{
		"description": "reworked description",
	}, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Skill
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("meta", updated.Name)
	suite.Equal("reworked description", updated.Description)
	suite.Equal(1, updated.CurrentVersion)
}

func (suite *IntegrationTestSuite) TestGenerateEditAnalyzeApplyCycle() {
	skill := suite.createSkill("cycle", "style v1")

	// Draft generation freezes the version it was produced from.
	w := suite.request(http.MethodPost, "/api/v1/articles/generate", map[string]interface{}{
		"skill_id": skill.ID,
		"topic":    "On queues",
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var article models.Article
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &article))
	suite.Equal(fakeDraft, article.AIGeneratedContent)
	suite.Require().NotNil(article.SkillVersionUsed)
	suite.Equal(1, *article.SkillVersionUsed)
	suite.Equal(models.StatusEditing, article.Status)

	// The human edit is stored verbatim.
	refined := "Hello\nBeautiful\nWorld\n"
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/articles/%d", article.ID), map[string]interface{}{
		"content": refined,
	}, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Analysis persists a diff record with applied=false.
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/articles/%d/analyze", article.ID), map[string]interface{}{
		"original": article.AIGeneratedContent,
		"modified": refined,
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var record models.DiffRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &record))
	suite.False(record.Applied)
	suite.Contains(record.DiffData, "+ Beautiful\n")
	suite.NotContains(record.DiffData, "- ")
	suite.Equal(fakeAnalysis, record.LLMAnalysis)

	// Committing the evolution flips the record's applied flag.
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/skills/%d/evolve", skill.ID), map[string]interface{}{
		"content_markdown": "style v2",
		"change_summary":   "applied analysis",
		"diff_record_id":   record.ID,
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code)

	applied, err := suite.articleRepo.GetDiffRecord(record.ID)
	suite.Require().NoError(err)
	suite.True(applied.Applied)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	var evolved models.Skill
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &evolved))
	suite.Equal(2, evolved.CurrentVersion)
}

func (suite *IntegrationTestSuite) TestGenerateFailureCreatesNoArticle() {
	skill := suite.createSkill("fail-gen", "v1")

	before, err := suite.articleRepo.Count()
	suite.Require().NoError(err)

	w := suite.request(http.MethodPost, "/api/v1/articles/generate", map[string]interface{}{
		"skill_id": skill.ID,
		"topic":    "FAIL_ME",
	}, true)
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "upstream boom")

	after, err := suite.articleRepo.Count()
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *IntegrationTestSuite) TestDeleteSkillKeepsArticleProvenance() {
	skill := suite.createSkill("doomed", "v1")

	w := suite.request(http.MethodPost, "/api/v1/articles/generate", map[string]interface{}{
		"skill_id": skill.ID,
		"topic":    "kept after delete",
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var article models.Article
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &article))

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/skills/%d", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	count, err := suite.skillRepo.CountVersions(skill.ID)
	suite.Require().NoError(err)
	suite.Zero(count)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/articles/%d", article.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	var kept models.Article
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &kept))
	suite.Nil(kept.SkillID)
	suite.Require().NotNil(kept.SkillVersionUsed)
	suite.Equal(1, *kept.SkillVersionUsed)
}

func (suite *IntegrationTestSuite) TestComputeDiffEndpoint() {
	w := suite.request(http.MethodPost, "/api/v1/diff", map[string]interface{}{
		"original": "Hello\nWorld\n",
		"modified": "Hello\nBeautiful\nWorld\n",
	}, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Chunks []struct {
			Tag   string `json:"tag"`
			Value string `json:"value"`
		} `json:"chunks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	inserts, deletes := 0, 0
	for _, c := range resp.Chunks {
		switch c.Tag {
		case "insert":
			inserts++
		case "delete":
			deletes++
		}
	}
	suite.GreaterOrEqual(inserts, 1)
	suite.Zero(deletes)
}

func (suite *IntegrationTestSuite) TestCreateSkillFromSamples() {
	w := suite.request(http.MethodPost, "/api/v1/skills/from-samples", map[string]interface{}{
		"name":         "from-samples",
		"samples_text": "first sample article\n---\nsecond sample article",
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var skill models.Skill
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &skill))
	suite.Equal(1, skill.CurrentVersion)

	version, err := suite.skillRepo.GetVersion(skill.ID, 1)
	suite.Require().NoError(err)
	suite.Contains(version.ContentMarkdown, "from-samples — Writing Style Skill")
	suite.Equal(fakeStyle, version.ContentJSON)

	samples, err := suite.skillRepo.GetSamples(skill.ID)
	suite.Require().NoError(err)
	suite.Len(samples, 2)
}

func (suite *IntegrationTestSuite) TestCreateSkillFromEmptySamples() {
	w := suite.request(http.MethodPost, "/api/v1/skills/from-samples", map[string]interface{}{
		"name":         "empty-samples",
		"samples_text": "   \n---\n  ",
	}, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "at least one sample")
}

func (suite *IntegrationTestSuite) TestExportMarkdownAndJSON() {
	skill := suite.createSkill("export-me", "the style content")

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/export/markdown", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "export-me")
	suite.Contains(w.Body.String(), "the style content")

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/skills/%d/export/json", skill.ID), nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	var export models.SkillExport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &export))
	suite.Equal("export-me", export.Name)
	suite.Equal(1, export.Version)
	suite.Equal("Umani", export.ExportedBy)
}

func (suite *IntegrationTestSuite) TestOnboardingAndLLMConfig() {
	w := suite.request(http.MethodGet, "/api/v1/onboarding", nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"llm_configured":true`)

	w = suite.request(http.MethodPut, "/api/v1/settings/llm", map[string]interface{}{
		"provider": "openai",
		"endpoint": suite.llmServer.URL,
		"model":    "another-model",
	}, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	// An omitted api_key keeps the stored one.
	w = suite.request(http.MethodPost, "/api/v1/settings/llm/test", nil, true)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
