package netcheck

// Fixed user-facing messages per failure class. The public probe
// operations surface one of these instead of raising; localization is
// left to the presentation layer.
const (
	MsgTimeout        = "request timed out, try again later"
	MsgConnection     = "network connection failed, check your network"
	MsgCachedResult   = "cached result"
	msgRequestPrefix  = "request error: "
	msgUnknownPrefix  = "unexpected error: "
	msgCheckExcPrefix = "check exception: "
)
