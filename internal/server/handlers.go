package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/export"
	"github.com/hyperifyio/memogen/internal/extract"
	"github.com/hyperifyio/memogen/internal/memo"
)

func (s *Server) maxUpload() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

// readInput collects the optional "document" file and "url" field.
func (s *Server) readInput(c *gin.Context) (memo.Input, int, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload())
	in := memo.Input{URL: c.PostForm("url")}

	fh, err := c.FormFile("document")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, 0, "", nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, http.StatusRequestEntityTooLarge, ErrorFileTooLarge, err
		}
		return in, http.StatusBadRequest, ErrorBadRequest, err
	}
	f, err := fh.Open()
	if err != nil {
		return in, http.StatusBadRequest, ErrorFileInvalid, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return in, http.StatusBadRequest, ErrorFileInvalid, err
	}

	format := extract.FormatFromName(fh.Header.Get("Content-Type"))
	if format == extract.FormatUnknown {
		format = extract.FormatFromName(fh.Filename)
	}
	if format == extract.FormatUnknown {
		return in, http.StatusBadRequest, ErrorFileInvalid, fmt.Errorf("%w: %s (upload a PDF or PPTX)", extract.ErrUnsupportedFormat, fh.Filename)
	}
	in.DocumentName = fh.Filename
	in.Document = data
	in.DocumentSupplied = true
	in.Format = format
	return in, 0, "", nil
}

func (s *Server) createSession(c *gin.Context) {
	in, status, code, err := s.readInput(c)
	if err != nil {
		abortWithError(c, status, code, err.Error())
		return
	}
	sess := memo.NewSession(in)
	s.store.set(sess)

	if err := s.orch.Run(c.Request.Context(), sess, in, nil); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("memo not generated")
		writePipelineError(c, err, sess.Snapshot())
		return
	}
	c.JSON(http.StatusCreated, sess.Snapshot())
}

func (s *Server) lookup(c *gin.Context) (*memo.Session, bool) {
	sess, ok := s.store.get(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, ErrorSessionNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

type editRequest struct {
	Name string `json:"name" binding:"required"`
	Text string `json:"text"`
}

func (s *Server) editSection(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorBadRequest, err.Error())
		return
	}
	if err := sess.Edit(req.Name, req.Text); err != nil {
		abortWithError(c, http.StatusNotFound, ErrorSectionNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) exportSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorExportFormatInvalid, err.Error())
		return
	}
	if !sess.HasMemo() {
		abortWithError(c, http.StatusConflict, ErrorExportDataEmpty, "memo has not been generated")
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, sess.Assemble()); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Str("format", string(format)).Msg("export failed")
		abortWithError(c, http.StatusInternalServerError, ErrorExportFailed, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
