package handler

// link binds one middleware to the stage it wraps.
type link struct {
	mw   Middleware
	next Handler
}

func (l *link) Handle(req *Request) (*Response, error) {
	return l.mw.Handle(req, l.next)
}

// Compose builds a single handler from a middleware stack and a terminal handler.
//
// The last middleware in the slice becomes the outermost wrapper: it observes
// the request first and the response last. Middlewares registered earlier sit
// closer to the terminal handler. For Compose([A, B], h) the call order is
// B-before, A-before, h, A-after, B-after.
//
// The returned handler holds no per-request state and may be shared by any
// number of concurrent requests.
func Compose(middlewares []Middleware, terminal Handler) Handler {
	h := terminal
	for _, mw := range middlewares {
		if mw == nil {
			continue
		}
		h = &link{mw: mw, next: h}
	}
	return h
}
