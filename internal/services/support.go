package services

type ScanProgress struct {
	Path      string
	Scanned   int64
	Completed bool
	Current   string
}

func progressNonBlocking(ch chan<- ScanProgress, msg ScanProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}
