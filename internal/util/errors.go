package util

import "fmt"

// 业务错误码，和 HTTP 状态一起随错误传播
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// AppError 带 HTTP 状态分类的业务错误。
// 在 service/handler 内部构造，最终由 Fail 统一映射为响应，
// 不再靠 panic/recover 传递状态码。
type AppError struct {
	Status  int    // HTTP 状态
	Code    int    // 业务码
	Message string // 对外可见的错误信息
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError 输入校验失败（字段长度、必填、密码强度等）
func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Status: 400, Code: CodeInvalidParam, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound id 指向的文档不存在
func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Status: 404, Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewEmptyResult 列表查询合法地查不到任何数据（区别于 NotFound），
// 映射为 204，无响应体。
func NewEmptyResult(message string) *AppError {
	return &AppError{Status: 204, Code: CodeOK, Message: message}
}

// NewConflict 唯一性冲突（名称/邮箱重复）
func NewConflict(format string, args ...interface{}) *AppError {
	return &AppError{Status: 409, Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// NewAuthError 认证相关错误。
// 原接口契约对缺失/无效凭据及 token 统一返回 400。
func NewAuthError(message string) *AppError {
	return &AppError{Status: 400, Code: CodeAuth, Message: message}
}
