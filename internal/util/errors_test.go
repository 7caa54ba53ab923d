package util

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestFail_StatusMapping 各类业务错误映射到对应的 HTTP 状态
func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		err        error
		wantStatus int
	}{
		{NewValidationError("bad field"), 400},
		{NewAuthError("missing token"), 400},
		{NewNotFound("no such id"), 404},
		{NewConflict("duplicated name"), 409},
		{NewEmptyResult("no rows"), 204},
		{errors.New("disk on fire"), 500},
		{fmt.Errorf("wrap: %w", NewNotFound("inner")), 404},
	}

	for _, tc := range testCases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Fail(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Errorf("Fail(%v) status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
	}
}

// TestFail_EmptyResultNoBody 204 不能带响应体
func TestFail_EmptyResultNoBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, NewEmptyResult("There are no products"))

	if w.Body.Len() != 0 {
		t.Errorf("204 body = %q, want empty", w.Body.String())
	}
}

// TestAppError_Message 错误信息就是对外可见的 message
func TestAppError_Message(t *testing.T) {
	err := NewNotFound("There are no product by id %s", "x1")
	if err.Error() != "There are no product by id x1" {
		t.Errorf("Error() = %q", err.Error())
	}
}
