package common

var noopServiceLog chan ServiceLog

func init() {
	noopServiceLog = make(chan ServiceLog, 64)
	go startNoopServiceLog()
}

// GetNoopServiceLog returns a shared channel that discards everything
// sent to it, for components created without a service log
func GetNoopServiceLog() chan ServiceLog {
	return noopServiceLog
}

func startNoopServiceLog() {
	for {
		_, ok := <-noopServiceLog
		if !ok {
			break
		}
	}
}
