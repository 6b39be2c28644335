package echoapi

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

const (
	filesField       = "files"
	attachmentsField = "attachments"
	maxUploadMemory  = 32 << 20
)

// paramID reads a positive integer path parameter; anything else is a 404.
func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// bindSubmission reads a submission request from JSON or from a multipart form
// whose `files` parts are the new uploads and `attachments` field is a JSON list of kept attachments.
func bindSubmission(ctx echo.Context, req *submission.Request) error {
	ctype := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		if err := ctx.Bind(req); err != nil {
			return errors.Wrap(err, "binding to submission.Request")
		}
		return nil
	}

	if err := ctx.Request().ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Cause(err) == echo.ErrStatusRequestEntityTooLarge {
			return err
		}
		return core.NewFieldError(filesField, "invalid upload: "+err.Error())
	}
	form := ctx.Request().MultipartForm
	defer func() { _ = form.RemoveAll() }()

	req.Content = ctx.FormValue("content")
	req.LateNote = ctx.FormValue("lateNote")
	req.IsDraft, _ = strconv.ParseBool(ctx.FormValue("isDraft"))

	if raw := ctx.FormValue(attachmentsField); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Attachments); err != nil {
			return core.NewFieldError(attachmentsField, "attachments must be a JSON list")
		}
	}

	for _, fh := range form.File[filesField] {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrapf(err, "opening upload %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "reading upload %s", fh.Filename)
		}
		req.Files = append(req.Files, submission.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Data:        data,
		})
	}
	return nil
}
