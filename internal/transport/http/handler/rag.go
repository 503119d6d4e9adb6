package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ragbridge/internal/bootstrap"
	"ragbridge/internal/metrics"
	"ragbridge/internal/model"
	"ragbridge/internal/rag"
	"ragbridge/internal/transport/http/middleware"
	"ragbridge/internal/transport/http/response"
)

type RAGHandler struct {
	app *bootstrap.App
}

func NewRAGHandler(app *bootstrap.App) *RAGHandler {
	return &RAGHandler{app: app}
}

// ListTargets godoc
//
//	@Summary	List documentation scrape targets
//	@Produce	json
//	@Success	200	{object}	response.APIResponse
//	@Router		/api/v1/rag/targets [get]
func (h *RAGHandler) ListTargets(c *gin.Context) {
	response.OK(c, gin.H{
		"names":   rag.Names(),
		"targets": rag.All(),
	})
}

// GetTarget godoc
//
//	@Summary	Fetch one scrape target by name
//	@Produce	json
//	@Param		name	path		string	true	"target name"
//	@Success	200		{object}	response.APIResponse
//	@Failure	404		{object}	response.APIResponse
//	@Router		/api/v1/rag/targets/{name} [get]
func (h *RAGHandler) GetTarget(c *gin.Context) {
	name := c.Param("name")
	target, ok := rag.Lookup(name)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "unknown rag target")
		return
	}
	response.OK(c, gin.H{"name": name, "target": target})
}

type refreshRequest struct {
	Target string `json:"target"`
}

// Refresh godoc
//
//	@Summary	Enqueue scrape jobs for one or all targets
//	@Accept		json
//	@Produce	json
//	@Param		body	body		handler.refreshRequest	false	"target to refresh; empty for all"
//	@Success	200		{object}	response.APIResponse
//	@Failure	404		{object}	response.APIResponse
//	@Failure	503		{object}	response.APIResponse
//	@Router		/api/v1/rag/refresh [post]
func (h *RAGHandler) Refresh(c *gin.Context) {
	if h.app.ScrapePublisher == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "scrape publishing is disabled")
		return
	}

	var req refreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request body")
			return
		}
	}

	names := rag.Names()
	if req.Target != "" {
		if _, ok := rag.Lookup(req.Target); !ok {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "unknown rag target")
			return
		}
		names = []string{req.Target}
	}

	jobIDs := make([]string, 0, len(names))
	for _, name := range names {
		target, _ := rag.Lookup(name)
		job := model.ScrapeJob{
			JobID:          uuid.NewString(),
			Target:         name,
			RepoURL:        target.RepoURL,
			FileExtensions: target.FileExtensions,
			IncludeFolders: target.IncludeFolders,
			ExcludeFolders: target.ExcludeFolders,
			RequestedAt:    time.Now().UTC(),
		}
		if err := h.app.ScrapePublisher.Publish(c.Request.Context(), job); err != nil {
			middleware.Log(c).Error(map[string]interface{}{"target": name, "error": err.Error()}, "publish scrape job")
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "publish scrape job failed")
			return
		}
		metrics.ScrapeJobsPublished.WithLabelValues(name).Inc()
		jobIDs = append(jobIDs, job.JobID)
	}

	response.OK(c, gin.H{"job_ids": jobIDs})
}
