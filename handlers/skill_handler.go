package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fengin/umani/models"
	"github.com/fengin/umani/services"
)

type SkillHandler struct {
	skillService services.SkillService
}

func NewSkillHandler(skillService services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req models.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.skillService.CreateSkill(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

func (h *SkillHandler) CreateSkillFromSamples(c *gin.Context) {
	var req models.CreateSkillFromSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.skillService.CreateSkillFromSamples(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

func (h *SkillHandler) GetSkill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	skill, err := h.skillService.GetSkill(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.skillService.ListSkills()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills, "total": len(skills)})
}

func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.skillService.UpdateSkill(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.skillService.DeleteSkill(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *SkillHandler) Evolve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.EvolveSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.skillService.Evolve(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

func (h *SkillHandler) ListVersions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	versions, err := h.skillService.ListVersions(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions, "total": len(versions)})
}

func (h *SkillHandler) GetVersion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version number"})
		return
	}

	version, err := h.skillService.GetVersion(id, versionNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *SkillHandler) ExportMarkdown(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	markdown, err := h.skillService.ExportMarkdown(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"markdown": markdown})
}

func (h *SkillHandler) ExportJSON(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	out, err := h.skillService.ExportJSON(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(out))
}
