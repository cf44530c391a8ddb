package httperr

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the error envelope handlers write. Commit conflicts carry
// the failed hold ids so clients can re-run availability for exactly
// those lines instead of the whole cart.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	FailedHoldIDs []uuid.UUID `json:"failed_hold_ids,omitempty"`
	Detail        any         `json:"detail,omitempty"`
}

func New(status int, code, msg string) Response {
	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}

func (r Response) WithFailedHolds(ids []uuid.UUID) Response {
	r.FailedHoldIDs = ids
	return r
}

// Abort records the original error for monitoring middleware and writes
// the envelope.
func Abort(c *gin.Context, resp Response, err error) {
	if err == nil {
		panic("httperr.Abort: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
