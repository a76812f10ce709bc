package response

// 错误码前三位即 HTTP 状态码
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrBadRequest      = newError(40002, "当前状态不允许该操作")
	ErrTokenInvalid    = newError(40101, "登录凭证无效")
	ErrUnauthorized    = newError(40102, "未登录")
	ErrForbidden       = newError(40301, "无权限")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrConflict        = newError(40901, "资源冲突")
	ErrValidation      = newError(42201, "校验失败")
	ErrTooManyRequests = newError(42901, "请求过于频繁")
	ErrDatabase        = newError(50001, "数据库错误")
	ErrInternal        = newError(50002, "服务器内部错误")
	ErrUpstream        = newError(50201, "外部服务调用失败")
)

// HTTPStatus 由错误码推出 HTTP 状态码
func (e *Error) HTTPStatus() int {
	status := int(e.Code / 100)
	if status < 400 || status > 599 {
		return 500
	}
	return status
}
