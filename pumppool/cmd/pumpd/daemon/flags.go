package daemon

const (
	homeFlag         = "home"
	forceFlag        = "force"
	httpListenerFlag = "http-listener"
)
