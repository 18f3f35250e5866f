package handler

type ContextKey string

var (
	RequestIDCtxKey   ContextKey = "requestID"
	PrincipalCtxKey   ContextKey = "principal"
	MyInfoCtx         ContextKey = "myInfo"
	HolidayCtx        ContextKey = "holiday"
	TimeOffRequestCtx ContextKey = "timeOffRequest"
)
