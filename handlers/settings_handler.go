package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fengin/umani/helper"
	"github.com/fengin/umani/models"
	"github.com/fengin/umani/services"
)

type SettingsHandler struct {
	settingsService services.SettingsService
	Helper          *helper.HTTPHelper
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, Helper: &helper.HTTPHelper{}}
}

func (h *SettingsHandler) GetLLMConfig(c *gin.Context) {
	profile, err := h.settingsService.GetLLMConfig()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "LLM config loaded", profile)
}

func (h *SettingsHandler) SaveLLMConfig(c *gin.Context) {
	var req models.LLMConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	profile, err := h.settingsService.SaveLLMConfig(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "LLM config saved", profile)
}

func (h *SettingsHandler) TestConnection(c *gin.Context) {
	reply, err := h.settingsService.TestConnection(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Connection ok", gin.H{"reply": reply})
}

func (h *SettingsHandler) OnboardingStatus(c *gin.Context) {
	status, err := h.settingsService.OnboardingStatus()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Onboarding status", status)
}
