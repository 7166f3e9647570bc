package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"github.com/techagentng/civilink/server/response"
	"github.com/techagentng/civilink/services"
)

const (
	msgSubmitted = "Complaint submitted successfully! Your complaint has been recorded and will be reviewed by local authorities."
	msgLiked     = "Liked. Your like has been recorded."
)

func complaintID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.JSON(c, "", http.StatusNotFound, nil, errs.ErrComplaintNotFound)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) listComplaints(c *gin.Context, filter models.ComplaintFilter) {
	list, err := s.ComplaintService.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleErrors(c, err)
		return
	}
	response.JSON(c, "", http.StatusOK, list, nil)
}

func (s *Server) handleListComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ComplaintFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		s.listComplaints(c, filter)
	}
}

func (s *Server) handleListBySection() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := models.Category(c.Param("category"))
		if !category.Valid() {
			response.JSON(c, "", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		s.listComplaints(c, models.ComplaintFilter{Category: category})
	}
}

func (s *Server) handleListByStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.Status(c.Param("status"))
		if !status.Valid() {
			response.JSON(c, "", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		s.listComplaints(c, models.ComplaintFilter{Status: status})
	}
}

func (s *Server) handleGetComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintID(c)
		if !ok {
			return
		}
		complaint, err := s.ComplaintService.Get(c.Request.Context(), id)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, complaint, nil)
	}
}

// handleSubmitComplaint reads the multipart complaint form. Absent fields are
// passed through empty so the service can report which one is missing.
func (s *Server) handleSubmitComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		req := models.ComplaintRequest{
			Description: c.PostForm("description"),
			Category:    c.PostForm("category"),
			Risk:        c.PostForm("risk"),
			User:        session.Name,
		}

		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrInvalidImage)
				return
			}
			data, err := io.ReadAll(io.LimitReader(file, services.MaxFileSize+1))
			file.Close()
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrInvalidImage)
				return
			}
			req.Image = &models.Upload{Filename: fileHeader.Filename, Data: data}
		}

		lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.PostForm("lng"), 64)
		if latErr == nil && lngErr == nil {
			req.Location = &models.Location{Lat: lat, Lng: lng}
		}

		complaint, err := s.ComplaintService.Submit(c.Request.Context(), &req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, msgSubmitted, http.StatusCreated, complaint, nil)
	}
}

func (s *Server) handleLikeComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintID(c)
		if !ok {
			return
		}
		session := currentSession(c)
		complaint, err := s.ComplaintService.Like(c.Request.Context(), id, session.Username)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, msgLiked, http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleCommentComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintID(c)
		if !ok {
			return
		}
		var req models.CommentRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		session := currentSession(c)
		comment, err := s.ComplaintService.Comment(c.Request.Context(), id, req.Text, session.Name)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "Comment added", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleUpdateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintID(c)
		if !ok {
			return
		}
		var req models.StatusUpdateRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrInvalidStatus)
			return
		}

		complaint, err := s.ComplaintService.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "Status updated", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleShareComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintID(c)
		if !ok {
			return
		}
		payload, err := s.ComplaintService.Share(c.Request.Context(), id)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, payload, nil)
	}
}

func (s *Server) handleDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.ComplaintService.Dashboard(c.Request.Context())
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, d, nil)
	}
}
