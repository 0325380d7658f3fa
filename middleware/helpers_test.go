package middleware_test

import (
	"net/http"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

func textHandler(body string) handler.Handler {
	return handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		return response.Text(body), nil
	})
}

func errHandler(err error) handler.Handler {
	return handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		return nil, err
	})
}

func panicHandler(v any) handler.Handler {
	return handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		panic(v)
	})
}

func get(path string) *handler.Request {
	return handler.NewRequest(http.MethodGet, path)
}
